package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"k24chat/pkg/models"
)

var (
	botColor  = color.New(color.FgCyan)
	errColor  = color.New(color.FgRed)
	metaColor = color.New(color.Faint)
)

type lineReader interface {
	Readline() (string, error)
}

func newReplCmd() *cobra.Command {
	var (
		server   string
		email    string
		password string
		channel  int
	)
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Chat in a channel from the terminal",
		Long: `repl logs in and sends every line as a message to the channel.
:page prints the newest messages and :quit leaves.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDefaults(cmd)
			if err != nil {
				return err
			}
			server = firstNonEmpty(server, cfg.Server, "http://localhost:8080")
			email = firstNonEmpty(email, cfg.Email)
			password = firstNonEmpty(password, cfg.Password)
			if !cmd.Flags().Changed("channel") {
				channel = cfg.Channel
			}
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			c := NewClient(server, 10*time.Second)
			if err := c.Login(email, password); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			defer c.Logout()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          fmt.Sprintf("#%d> ", channel),
				HistoryFile:     cfg.History,
				InterruptPrompt: "^C",
				EOFPrompt:       ":quit",
			})
			if err != nil {
				return fmt.Errorf("init readline: %w", err)
			}
			defer rl.Close()
			return runREPL(c, channel, rl, rl.Stdout())
		},
	}
	cmd.Flags().StringVar(&server, "server", "", "server base url")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	cmd.Flags().IntVar(&channel, "channel", 0, "channel id to chat in")
	return cmd
}

func runREPL(c *Client, channel int, rl lineReader, out io.Writer) error {
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			fmt.Fprintln(out, "Use :quit to leave.")
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case ":quit", ":q":
			return nil
		case ":page":
			msgs, err := c.Newest(channel)
			if err != nil {
				errColor.Fprintf(out, "error: %v\n", err)
				continue
			}
			printPage(out, msgs)
			continue
		}
		if _, err := c.Send(channel, line); err != nil {
			errColor.Fprintf(out, "error: %v\n", err)
		}
	}
}

// printPage prints oldest first so the newest message sits above the prompt.
func printPage(out io.Writer, msgs []models.MessageView) {
	for i := len(msgs) - 1; i >= 0; i-- {
		m := msgs[i]
		ts := time.Unix(m.TimeSent, 0).Format("15:04")
		metaColor.Fprintf(out, "[%s] ", ts)
		if m.UID == models.BotUID {
			botColor.Fprintf(out, "K-24 bot: %s\n", m.Message)
			continue
		}
		fmt.Fprintf(out, "user %d: %s\n", m.UID, m.Message)
	}
}
