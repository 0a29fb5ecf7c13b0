package chat

import (
	"k24chat/pkg/directory"
	"k24chat/pkg/errs"
	"k24chat/pkg/models"
	"k24chat/pkg/notify"
	"k24chat/pkg/state/logger"
	"k24chat/pkg/stats"
)

// SendLater schedules a channel message for timeSent. The id is handed out
// now; the message only shows up once delivered.
func (s *Service) SendLater(token string, channelID int, text string, timeSent int64) (int, error) {
	return s.sendLater(token, models.ChannelTarget(channelID), text, timeSent)
}

func (s *Service) SendLaterDM(token string, dmID int, text string, timeSent int64) (int, error) {
	return s.sendLater(token, models.DMTarget(dmID), text, timeSent)
}

func (s *Service) sendLater(token string, t models.Target, text string, timeSent int64) (int, error) {
	var mid int
	err := s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		if t.IsChannel() {
			if directory.Channel(d, t.ChannelID) == nil {
				return errs.BadRequest("Invalid channelId")
			}
			if n := textLen(text); n < 1 || n > MaxMessageLength {
				return errs.BadRequest("length of message is less than 1 or over 1000 characters")
			}
			if timeSent < s.unix() {
				return errs.BadRequest("timeSent cannot be a time in the past")
			}
		} else {
			if directory.DM(d, t.DMID) == nil {
				return errs.BadRequest("invalid dmId")
			}
			if n := textLen(text); n < 1 || n > MaxMessageLength {
				return errs.BadRequest("message too long")
			}
			if timeSent < s.unix() {
				return errs.BadRequest("time cannot be in the past")
			}
		}
		if !directory.IsMember(d, uid, t) {
			return errs.Forbidden("authorised user is not a member of the channel or DM")
		}
		mid = d.NextMessageID()
		d.Pending = append(d.Pending, models.PendingMessage{
			Target: t,
			Message: models.Message{
				MessageID: mid,
				UID:       uid,
				Message:   text,
				TimeSent:  timeSent,
				Reacts:    []models.React{},
			},
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.armPending(mid, timeSent)
	return mid, nil
}

func (s *Service) armPending(messageID int, at int64) {
	s.sched.Schedule(pendingKey(messageID), s.delayUntil(at), func() { s.deliver(messageID) })
}

// deliver moves a pending message into its log. The author must still be a
// member of the target at that point, otherwise the message is dropped.
func (s *Service) deliver(messageID int) {
	var delivered bool
	err := s.store.Update(func(d *models.Data) error {
		idx := -1
		for i := range d.Pending {
			if d.Pending[i].Message.MessageID == messageID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}
		p := d.Pending[idx]
		d.Pending = append(d.Pending[:idx], d.Pending[idx+1:]...)
		if !directory.IsMember(d, p.Message.UID, p.Target) {
			logger.Info("pending_message_dropped", "message_id", messageID, "uid", p.Message.UID)
			return nil
		}
		log := directory.Messages(d, p.Target)
		*log = append(*log, p.Message)
		now := s.unix()
		stats.MessageSent(d, p.Message.UID, now)
		stats.MessagesChanged(d, 1, now)
		notify.Tags(d, p.Target, p.Message.UID, p.Message.Message)
		delivered = true
		return nil
	})
	if err != nil {
		logger.Error("pending_message_delivery_failed", "message_id", messageID, "error", err)
		return
	}
	if delivered {
		s.posted("later")
	}
}

// dropPending removes the pending messages aimed at t and returns their ids.
func dropPending(d *models.Data, t models.Target) []int {
	var ids []int
	kept := d.Pending[:0]
	for _, p := range d.Pending {
		if p.Target == t {
			ids = append(ids, p.Message.MessageID)
			continue
		}
		kept = append(kept, p)
	}
	d.Pending = kept
	return ids
}
