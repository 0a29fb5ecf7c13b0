package chat

import (
	"strings"

	"k24chat/pkg/errs"
	"k24chat/pkg/models"
	"k24chat/pkg/notify"
	"k24chat/pkg/stats"
)

// Search finds messages containing query, ignoring case, across every
// channel and dm the caller belongs to.
func (s *Service) Search(token, query string) ([]models.MessageView, error) {
	out := []models.MessageView{}
	err := s.store.View(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		if n := textLen(query); n < 1 || n > MaxMessageLength {
			return errs.BadRequest("query string must be between 1 and 1000 characters")
		}
		needle := strings.ToLower(query)
		now := s.unix()
		match := func(msgs []models.Message) {
			for i := range msgs {
				m := &msgs[i]
				if m.TimeSent <= now && strings.Contains(strings.ToLower(m.Message), needle) {
					out = append(out, m.ViewFor(uid))
				}
			}
		}
		for i := range d.Channels {
			if models.ContainsInt(d.Channels[i].AllMembers, uid) {
				match(d.Channels[i].Messages)
			}
		}
		for i := range d.DMs {
			if models.ContainsInt(d.DMs[i].Members, uid) {
				match(d.DMs[i].Messages)
			}
		}
		return nil
	})
	return out, err
}

// Notifications returns the caller's most recent notifications.
func (s *Service) Notifications(token string) ([]models.Notification, error) {
	var out []models.Notification
	err := s.store.View(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		out = notify.Latest(d, uid)
		return nil
	})
	return out, err
}

func (s *Service) UserStats(token string) (stats.UserReport, error) {
	var out stats.UserReport
	err := s.store.View(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		out = stats.ForUser(d, uid)
		return nil
	})
	return out, err
}

func (s *Service) WorkspaceStats(token string) (stats.WorkspaceReport, error) {
	var out stats.WorkspaceReport
	err := s.store.View(func(d *models.Data) error {
		if _, err := authenticate(d, token); err != nil {
			return err
		}
		out = stats.ForWorkspace(d)
		return nil
	})
	return out, err
}
