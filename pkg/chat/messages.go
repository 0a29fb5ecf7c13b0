package chat

import (
	"k24chat/pkg/bot"
	"k24chat/pkg/directory"
	"k24chat/pkg/errs"
	"k24chat/pkg/models"
	"k24chat/pkg/notify"
	"k24chat/pkg/stats"
)

// send validates and appends a message from uid, then lets the bot and the
// tag notifier react to it. Callers have already checked membership.
func (s *Service) send(d *models.Data, uid int, t models.Target, text, kind string) (int, bot.Outcome) {
	now := s.unix()
	mid := appendMessage(d, t, uid, text, now)
	stats.MessageSent(d, uid, now)
	stats.MessagesChanged(d, 1, now)
	s.posted(kind)
	out := s.dispatch(d, uid, t, text)
	notify.Tags(d, t, uid, text)
	return mid, out
}

// SendMessage posts text to a channel the caller belongs to.
func (s *Service) SendMessage(token string, channelID int, text string) (int, error) {
	var (
		mid int
		out bot.Outcome
	)
	t := models.ChannelTarget(channelID)
	err := s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		if directory.Channel(d, channelID) == nil {
			return errs.BadRequest("Invalid channelId")
		}
		if n := textLen(text); n < 1 || n > MaxMessageLength {
			return errs.BadRequest("length of message is less than 1 or over 1000 characters")
		}
		if !directory.IsChannelMember(d, uid, channelID) {
			return errs.Forbidden("authorised user is not a member of the channel")
		}
		mid, out = s.send(d, uid, t, text, "channel")
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.followUp(t, out)
	return mid, nil
}

// SendDM posts text to a dm the caller belongs to.
func (s *Service) SendDM(token string, dmID int, text string) (int, error) {
	var (
		mid int
		out bot.Outcome
	)
	t := models.DMTarget(dmID)
	err := s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		if n := textLen(text); n < 1 || n > MaxMessageLength {
			return errs.BadRequest("message too long")
		}
		if directory.DM(d, dmID) == nil {
			return errs.BadRequest("invalid dmId")
		}
		if !directory.IsDMMember(d, uid, dmID) {
			return errs.Forbidden("user does not have permission to access this DM")
		}
		mid, out = s.send(d, uid, t, text, "dm")
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.followUp(t, out)
	return mid, nil
}

// editable finds a message the caller can see and checks they may change it:
// its author or someone with elevated permission where it lives.
func editable(d *models.Data, uid, messageID int, denied string) (directory.MessageRef, error) {
	ref, ok := directory.FindAccessibleMessage(d, uid, messageID)
	if !ok {
		return ref, errs.BadRequest("Invalid messageId")
	}
	if ref.Message.UID != uid && !directory.HasElevated(d, uid, ref.Target) {
		return ref, errs.Forbidden("%s", denied)
	}
	return ref, nil
}

func deleteAt(d *models.Data, ref directory.MessageRef) {
	log := directory.Messages(d, ref.Target)
	*log = append((*log)[:ref.Index], (*log)[ref.Index+1:]...)
}

// EditMessage replaces a message's text. Empty text removes the message.
func (s *Service) EditMessage(token string, messageID int, text string) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		if textLen(text) > MaxMessageLength {
			return errs.BadRequest("Message exceeds 1000 characters")
		}
		ref, err := editable(d, uid, messageID, "User does not have permission to edit message")
		if err != nil {
			return err
		}
		if text == "" {
			deleteAt(d, ref)
			stats.MessagesChanged(d, -1, s.unix())
			return nil
		}
		ref.Message.Message = text
		notify.Tags(d, ref.Target, uid, text)
		return nil
	})
}

func (s *Service) RemoveMessage(token string, messageID int) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		ref, err := editable(d, uid, messageID, "User does not have permission to remove message")
		if err != nil {
			return err
		}
		deleteAt(d, ref)
		stats.MessagesChanged(d, -1, s.unix())
		return nil
	})
}

// ShareMessage re-posts an accessible message to exactly one channel or dm,
// with an optional comment above it.
func (s *Service) ShareMessage(token string, ogMessageID int, comment string, channelID, dmID int) (int, error) {
	var (
		mid int
		out bot.Outcome
		t   models.Target
	)
	err := s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		channelOK := channelID != -1 && directory.Channel(d, channelID) != nil
		dmOK := dmID != -1 && directory.DM(d, dmID) != nil
		switch {
		case !channelOK && !dmOK:
			return errs.BadRequest("invalid channel and DM")
		case textLen(comment) > MaxMessageLength:
			return errs.BadRequest("message too long")
		case channelID != -1 && dmID != -1:
			return errs.BadRequest("channel and DM cannot both be filled")
		}
		og, ok := directory.FindAccessibleMessage(d, uid, ogMessageID)
		if !ok {
			return errs.BadRequest("message does not exist")
		}
		t = models.Target{ChannelID: channelID, DMID: dmID}
		if !directory.IsMember(d, uid, t) {
			return errs.Forbidden("user is not a member of the channel or DM they are sharing to")
		}
		mid, out = s.send(d, uid, t, comment+"\n\n"+og.Message.Message, "share")
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.followUp(t, out)
	return mid, nil
}

func (s *Service) ReactMessage(token string, messageID, reactID int) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		ref, ok := directory.FindAccessibleMessage(d, uid, messageID)
		if !ok {
			return errs.BadRequest("messageId is not a valid message that the authorized user can access")
		}
		if reactID != models.ValidReactID {
			return errs.BadRequest("reactId is not a valid reactId")
		}
		m := ref.Message
		for i := range m.Reacts {
			if m.Reacts[i].ReactID != reactID {
				continue
			}
			if models.ContainsInt(m.Reacts[i].UIDs, uid) {
				return errs.BadRequest("authorized user has already reacted")
			}
			m.Reacts[i].UIDs = append(m.Reacts[i].UIDs, uid)
			notify.React(d, ref.Target, m.UID, uid)
			return nil
		}
		m.Reacts = append(m.Reacts, models.React{ReactID: reactID, UIDs: []int{uid}})
		notify.React(d, ref.Target, m.UID, uid)
		return nil
	})
}

func (s *Service) UnreactMessage(token string, messageID, reactID int) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		ref, ok := directory.FindAccessibleMessage(d, uid, messageID)
		if !ok {
			return errs.BadRequest("messageId is not a valid message that the authorized user can access")
		}
		if reactID != models.ValidReactID {
			return errs.BadRequest("reactId is not a valid reactId")
		}
		m := ref.Message
		for i := range m.Reacts {
			if m.Reacts[i].ReactID != reactID {
				continue
			}
			if !models.ContainsInt(m.Reacts[i].UIDs, uid) {
				return errs.BadRequest("authorized user has not reacted")
			}
			m.Reacts[i].UIDs = models.RemoveInt(m.Reacts[i].UIDs, uid)
			if len(m.Reacts[i].UIDs) == 0 {
				m.Reacts = append(m.Reacts[:i], m.Reacts[i+1:]...)
			}
			return nil
		}
		return errs.BadRequest("react does not exist")
	})
}

func (s *Service) PinMessage(token string, messageID int) error {
	return s.setPinned(token, messageID, true)
}

func (s *Service) UnpinMessage(token string, messageID int) error {
	return s.setPinned(token, messageID, false)
}

// setPinned needs owner rights where the message lives, so authors cannot
// pin their own messages.
func (s *Service) setPinned(token string, messageID int, pinned bool) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		ref, ok := directory.FindAccessibleMessage(d, uid, messageID)
		if !ok {
			return errs.BadRequest("message does not exist")
		}
		if !directory.HasElevated(d, uid, ref.Target) {
			if pinned {
				return errs.Forbidden("user does not have permission to pin this message")
			}
			return errs.Forbidden("user does not have permission to unpin this message")
		}
		switch {
		case pinned && ref.Message.IsPinned:
			return errs.BadRequest("message is already pinned")
		case !pinned && !ref.Message.IsPinned:
			return errs.BadRequest("message is already not pinned")
		}
		ref.Message.IsPinned = pinned
		return nil
	})
}
