package chat

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"unicode"

	"k24chat/pkg/directory"
	"k24chat/pkg/errs"
	"k24chat/pkg/models"
	"k24chat/pkg/state/logger"
	"k24chat/pkg/stats"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	maxNameLength     = 50
	maxHandleLength   = 20
)

// Session is returned by register and login.
type Session struct {
	AuthUserID int    `json:"authUserId"`
	Token      string `json:"token"`
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && addr.Name == ""
}

func validName(name string) bool {
	n := textLen(name)
	return n >= 1 && n <= maxNameLength
}

func emailTaken(d *models.Data, email string) bool {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return true
		}
	}
	return false
}

func handleTaken(d *models.Data, handle string) bool {
	for i := range d.Users {
		if d.Users[i].Handle == handle {
			return true
		}
	}
	return false
}

// deriveHandle builds a unique handle from the lowercase alphanumerics of
// the user's names, suffixing a counter on collision.
func deriveHandle(d *models.Data, first, last string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(first + last) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) > maxHandleLength {
		base = base[:maxHandleLength]
	}
	if base == "" {
		base = "user"
	}
	handle := base
	for n := 0; handleTaken(d, handle); n++ {
		handle = base + strconv.Itoa(n)
	}
	return handle
}

func (s *Service) hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", errs.BadRequest("Invalid password")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func (s *Service) defaultImageURL() string {
	return s.publicURL + "/img/" + DefaultImage
}

// Register creates a user and opens a session. The first user becomes the
// global owner.
func (s *Service) Register(email, password, nameFirst, nameLast string) (Session, error) {
	// hash outside the lock
	hash, err := s.hashPassword(password)
	if err != nil {
		return Session{}, err
	}
	var out Session
	err = s.store.Update(func(d *models.Data) error {
		switch {
		case !validEmail(email):
			return errs.BadRequest("Invalid email")
		case emailTaken(d, email):
			return errs.BadRequest("Email already in use")
		case len(password) < minPasswordLength:
			return errs.BadRequest("Invalid password")
		case !validName(nameFirst):
			return errs.BadRequest("Invalid first name")
		case !validName(nameLast):
			return errs.BadRequest("Invalid last name")
		}
		uid := len(d.Users)
		perm := models.PermMember
		if uid == 0 {
			perm = models.PermOwner
		}
		token := uuid.NewString()
		d.Users = append(d.Users, models.User{
			UID:           uid,
			Email:         email,
			PasswordHash:  hash,
			NameFirst:     nameFirst,
			NameLast:      nameLast,
			Handle:        deriveHandle(d, nameFirst, nameLast),
			Permission:    perm,
			Tokens:        []string{token},
			ProfileImgURL: s.defaultImageURL(),
			Notifications: []models.Notification{},
			Stats:         stats.NewUserStats(s.unix()),
		})
		out = Session{AuthUserID: uid, Token: token}
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	logger.Info("user_registered", "uid", out.AuthUserID)
	return out, nil
}

func (s *Service) Login(email, password string) (Session, error) {
	d := s.store.Read()
	var user *models.User
	for i := range d.Users {
		if !d.Users[i].Removed && d.Users[i].Email == email {
			user = &d.Users[i]
			break
		}
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, errs.BadRequest("Invalid email or password")
	}
	uid := user.UID
	token := uuid.NewString()
	err := s.store.Update(func(d *models.Data) error {
		u := directory.ActiveUser(d, uid)
		if u == nil || u.Email != email {
			return errs.BadRequest("Invalid email or password")
		}
		u.Tokens = append(u.Tokens, token)
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	return Session{AuthUserID: uid, Token: token}, nil
}

func (s *Service) Logout(token string) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		u := directory.User(d, uid)
		kept := u.Tokens[:0]
		for _, t := range u.Tokens {
			if t != token {
				kept = append(kept, t)
			}
		}
		u.Tokens = kept
		return nil
	})
}

// RequestPasswordReset stores a fresh reset code and mails it.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	code := uuid.NewString()
	err := s.store.Update(func(d *models.Data) error {
		for i := range d.Users {
			u := &d.Users[i]
			if !u.Removed && u.Email == email {
				u.ResetCode = code
				return nil
			}
		}
		return errs.BadRequest("Email not found")
	})
	if err != nil {
		return err
	}
	if err := s.mailer.SendResetCode(ctx, email, code); err != nil {
		logger.Warn("password_reset_mail_failed", "error", err)
	}
	return nil
}

// ResetPassword consumes a reset code.
func (s *Service) ResetPassword(code, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		// checked after the code below to keep error precedence
		newPassword = ""
	}
	hash := ""
	if newPassword != "" {
		h, err := s.hashPassword(newPassword)
		if err != nil {
			return err
		}
		hash = h
	}
	return s.store.Update(func(d *models.Data) error {
		var user *models.User
		for i := range d.Users {
			if code != "" && d.Users[i].ResetCode == code {
				user = &d.Users[i]
				break
			}
		}
		if user == nil {
			return errs.BadRequest("Invalid reset code")
		}
		if hash == "" {
			return errs.BadRequest("New password must be at least 6 characters long")
		}
		user.PasswordHash = hash
		user.ResetCode = ""
		return nil
	})
}
