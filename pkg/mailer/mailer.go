// Package mailer delivers password reset codes.
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"

	"k24chat/pkg/state/logger"
)

type Mailer interface {
	SendResetCode(ctx context.Context, to, code string) error
}

const resetSubject = "K24 password reset"

func resetBody(code string) string {
	return "Your password reset code is: " + code + "\r\n"
}

// LogMailer writes the code to the log instead of sending it. It also keeps
// the last code per address so local tooling can read it back.
type LogMailer struct {
	mu   sync.Mutex
	last map[string]string
}

func NewLogMailer() *LogMailer { return &LogMailer{last: make(map[string]string)} }

func (m *LogMailer) SendResetCode(_ context.Context, to, code string) error {
	m.mu.Lock()
	m.last[to] = code
	m.mu.Unlock()
	logger.Info("password_reset_code_issued", "to", to, "delivery", "log")
	logger.Debug("password_reset_code", "to", to, "code", code)
	return nil
}

// LastCode returns the most recent code sent to addr.
func (m *LogMailer) LastCode(addr string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.last[addr]
	return c, ok
}

// SMTPMailer sends mail through a relay with PLAIN auth.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		auth: auth,
		from: from,
		send: smtp.SendMail,
	}
}

func (m *SMTPMailer) SendResetCode(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("invalid recipient %q", to)
	}
	var b strings.Builder
	b.WriteString("From: " + m.from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + resetSubject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(resetBody(code))
	if err := m.send(m.addr, m.auth, m.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	logger.Info("password_reset_code_issued", "to", to, "delivery", "smtp")
	return nil
}
