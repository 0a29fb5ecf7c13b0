package chat

import (
	"k24chat/pkg/directory"
	"k24chat/pkg/errs"
	"k24chat/pkg/models"
	"k24chat/pkg/state/logger"
)

const removedText = "Removed user"

// RemoveUser takes uid out of every channel and dm, blanks their messages
// and retires the account. The profile stays readable.
func (s *Service) RemoveUser(token string, uid int) error {
	return s.store.Update(func(d *models.Data) error {
		actor, err := authenticate(d, token)
		if err != nil {
			return err
		}
		u := directory.ActiveUser(d, uid)
		switch {
		case u == nil:
			return errs.BadRequest("Invalid uId")
		case u.Permission == models.PermOwner && directory.GlobalOwnerCount(d) == 1:
			return errs.BadRequest("uId is the only global owner")
		case !directory.IsGlobalOwner(d, actor):
			return errs.Forbidden("authorised user is not a global owner")
		}
		for i := range d.Channels {
			ch := &d.Channels[i]
			ch.AllMembers = models.RemoveInt(ch.AllMembers, uid)
			ch.OwnerMembers = models.RemoveInt(ch.OwnerMembers, uid)
			blankMessages(ch.Messages, uid)
		}
		for i := range d.DMs {
			dm := &d.DMs[i]
			dm.Members = models.RemoveInt(dm.Members, uid)
			if dm.Owner != nil && *dm.Owner == uid {
				dm.Owner = nil
			}
			blankMessages(dm.Messages, uid)
		}
		u.Tokens = []string{}
		u.NameFirst = "Removed"
		u.NameLast = "user"
		u.Email = ""
		u.Handle = ""
		u.ResetCode = ""
		u.Removed = true
		logger.AuditEvent("user_removed", "actor", actor, "uid", uid)
		return nil
	})
}

func blankMessages(msgs []models.Message, uid int) {
	for i := range msgs {
		if msgs[i].UID == uid {
			msgs[i].Message = removedText
		}
	}
}

// ChangePermission sets uid's global permission level.
func (s *Service) ChangePermission(token string, uid, permission int) error {
	return s.store.Update(func(d *models.Data) error {
		actor, err := authenticate(d, token)
		if err != nil {
			return err
		}
		return s.setPermission(d, actor, uid, permission)
	})
}
