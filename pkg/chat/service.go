// Package chat implements every workspace operation on top of the store.
// Each operation validates against a working copy and only commits when it
// succeeds, so a BadRequest or Forbidden never leaves partial state behind.
package chat

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"k24chat/pkg/directory"
	"k24chat/pkg/errs"
	"k24chat/pkg/hangman"
	"k24chat/pkg/mailer"
	"k24chat/pkg/models"
	"k24chat/pkg/scheduler"
	"k24chat/pkg/state/logger"
	"k24chat/pkg/store"

	"golang.org/x/crypto/bcrypt"
)

const (
	MaxMessageLength = 1000
	PageSize         = 50
)

// WordPicker supplies hangman words.
type WordPicker interface {
	Pick(ctx context.Context) (hangman.Word, error)
}

// Hooks receive operational events, mostly for metrics. Nil hooks are skipped.
type Hooks struct {
	MessagePosted func(kind string)
	BotCommand    func(name string)
	GameStarted   func()
	GameFinished  func(outcome string)
}

type Options struct {
	Picker     WordPicker
	Mailer     mailer.Mailer
	Photos     *Photos
	Hooks      Hooks
	Now        func() time.Time
	BcryptCost int
	// PublicURL prefixes profile image links.
	PublicURL string
}

type Service struct {
	store     *store.Store
	sched     *scheduler.Registry
	picker    WordPicker
	mailer    mailer.Mailer
	photos    *Photos
	hooks     Hooks
	now       func() time.Time
	cost      int
	publicURL string

	ctx    context.Context
	cancel context.CancelFunc
	bg     sync.WaitGroup
}

func New(st *store.Store, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Mailer == nil {
		opts.Mailer = mailer.NewLogMailer()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		store:     st,
		sched:     scheduler.New(),
		picker:    opts.Picker,
		mailer:    opts.Mailer,
		photos:    opts.Photos,
		hooks:     opts.Hooks,
		now:       opts.Now,
		cost:      opts.BcryptCost,
		publicURL: opts.PublicURL,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start re-arms the timers persisted in the workspace: pending send-later
// messages and running standups.
func (s *Service) Start() {
	d := s.store.Read()
	for _, p := range d.Pending {
		s.armPending(p.Message.MessageID, p.Message.TimeSent)
	}
	for _, ch := range d.Channels {
		if ch.Standup != nil {
			s.armStandup(ch.ChannelID, ch.Standup.TimeFinish)
		}
	}
	if n := len(d.Pending); n > 0 {
		logger.Info("pending_messages_rearmed", "count", n)
	}
}

// Wait blocks until background work, such as picking a hangman word, is done.
func (s *Service) Wait() { s.bg.Wait() }

// Close stops timers and background work.
func (s *Service) Close() {
	s.cancel()
	s.sched.Stop()
	s.bg.Wait()
}

// PendingTimers reports how many deferred jobs are armed.
func (s *Service) PendingTimers() int { return s.sched.Pending() }

// Clear resets the workspace and drops every timer.
func (s *Service) Clear() error {
	n := s.sched.CancelAll()
	if err := s.store.Clear(); err != nil {
		return err
	}
	logger.Info("workspace_cleared", "timers_cancelled", n)
	logger.AuditEvent("workspace_clear")
	return nil
}

func (s *Service) unix() int64 { return s.now().Unix() }

func (s *Service) env() *botEnv { return &botEnv{s: s} }

func (s *Service) posted(kind string) {
	if s.hooks.MessagePosted != nil {
		s.hooks.MessagePosted(kind)
	}
}

func authenticate(d *models.Data, token string) (int, error) {
	uid, ok := directory.UIDFromToken(d, token)
	if !ok {
		return 0, errs.Forbidden("Invalid token")
	}
	return uid, nil
}

func textLen(s string) int { return utf8.RuneCountInString(s) }

// appendMessage adds a message to t's log and counts it for the workspace.
func appendMessage(d *models.Data, t models.Target, uid int, text string, sent int64) int {
	log := directory.Messages(d, t)
	if log == nil {
		return -1
	}
	m := models.Message{
		MessageID: d.NextMessageID(),
		UID:       uid,
		Message:   text,
		TimeSent:  sent,
		Reacts:    []models.React{},
	}
	*log = append(*log, m)
	return m.MessageID
}

func pendingKey(messageID int) string { return "pending:" + strconv.Itoa(messageID) }
func standupKey(channelID int) string { return fmt.Sprintf("standup:%d", channelID) }

func (s *Service) delayUntil(unix int64) time.Duration {
	return time.Unix(unix, 0).Sub(s.now())
}

// goBackground runs fn tracked by Wait and Close.
func (s *Service) goBackground(fn func(ctx context.Context)) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		fn(s.ctx)
	}()
}
