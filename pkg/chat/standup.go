package chat

import (
	"strings"

	"k24chat/pkg/directory"
	"k24chat/pkg/errs"
	"k24chat/pkg/models"
	"k24chat/pkg/state/logger"
	"k24chat/pkg/stats"
)

// StandupStatus reports whether a standup is collecting lines.
type StandupStatus struct {
	IsActive   bool   `json:"isActive"`
	TimeFinish *int64 `json:"timeFinish"`
}

// StartStandup opens a standup of length seconds in a channel. When it
// finishes the buffered lines are posted as one message from the starter.
func (s *Service) StartStandup(token string, channelID int, length int64) (int64, error) {
	var finish int64
	err := s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		ch := directory.Channel(d, channelID)
		switch {
		case ch == nil:
			return errs.BadRequest("Channel does not exist")
		case ch.Standup != nil:
			return errs.BadRequest("StandUp is already active")
		case length < 0:
			return errs.BadRequest("Length must be a positive integer")
		case !models.ContainsInt(ch.AllMembers, uid):
			return errs.Forbidden("authorised user is not a member of the channel")
		}
		finish = s.unix() + length
		ch.Standup = &models.Standup{StarterUID: uid, TimeFinish: finish, Lines: []string{}}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.armStandup(channelID, finish)
	return finish, nil
}

func (s *Service) armStandup(channelID int, finish int64) {
	s.sched.Schedule(standupKey(channelID), s.delayUntil(finish), func() { s.finishStandup(channelID) })
}

func (s *Service) finishStandup(channelID int) {
	var posted bool
	err := s.store.Update(func(d *models.Data) error {
		ch := directory.Channel(d, channelID)
		if ch == nil || ch.Standup == nil {
			return nil
		}
		st := ch.Standup
		ch.Standup = nil
		if len(st.Lines) == 0 {
			return nil
		}
		t := models.ChannelTarget(channelID)
		appendMessage(d, t, st.StarterUID, strings.Join(st.Lines, "\n"), st.TimeFinish)
		now := s.unix()
		stats.MessageSent(d, st.StarterUID, now)
		stats.MessagesChanged(d, 1, now)
		posted = true
		return nil
	})
	if err != nil {
		logger.Error("standup_finish_failed", "channel_id", channelID, "error", err)
		return
	}
	if posted {
		s.posted("standup")
	}
}

// SendStandup buffers "handle: message" for the running standup.
func (s *Service) SendStandup(token string, channelID int, text string) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		ch := directory.Channel(d, channelID)
		switch {
		case ch == nil:
			return errs.BadRequest("Channel does not exist")
		case ch.Standup == nil:
			return errs.BadRequest("no active standup in target channel")
		case textLen(text) > MaxMessageLength:
			return errs.BadRequest("message too long")
		case !models.ContainsInt(ch.AllMembers, uid):
			return errs.Forbidden("authorised user is not a member of the channel")
		}
		ch.Standup.Lines = append(ch.Standup.Lines, directory.Handle(d, uid)+": "+text)
		return nil
	})
}

func (s *Service) StandupActive(token string, channelID int) (StandupStatus, error) {
	var out StandupStatus
	err := s.store.View(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		ch := directory.Channel(d, channelID)
		if ch == nil {
			return errs.BadRequest("Channel does not exist")
		}
		if !models.ContainsInt(ch.AllMembers, uid) {
			return errs.Forbidden("authorised user is not a member of the channel")
		}
		if ch.Standup != nil {
			finish := ch.Standup.TimeFinish
			out = StandupStatus{IsActive: true, TimeFinish: &finish}
		}
		return nil
	})
	return out, err
}
