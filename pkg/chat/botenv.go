package chat

import (
	"context"
	"fmt"

	"k24chat/pkg/bot"
	"k24chat/pkg/directory"
	"k24chat/pkg/errs"
	"k24chat/pkg/models"
	"k24chat/pkg/notify"
	"k24chat/pkg/state/logger"
	"k24chat/pkg/stats"
)

// botEnv lets bot commands reuse the same validated operations as the API.
type botEnv struct{ s *Service }

func (e *botEnv) Post(d *models.Data, t models.Target, text string) {
	e.s.postBot(d, t, text)
}

func (e *botEnv) Invite(d *models.Data, inviterUID, channelID, uid int) error {
	return e.s.invite(d, inviterUID, channelID, uid)
}

func (e *botEnv) AddOwner(d *models.Data, actorUID, channelID, uid int) error {
	return e.s.addOwner(d, actorUID, channelID, uid)
}

func (e *botEnv) RemoveOwner(d *models.Data, actorUID, channelID, uid int) error {
	return e.s.removeOwner(d, actorUID, channelID, uid)
}

func (e *botEnv) SetPermission(d *models.Data, actorUID, uid, permission int) error {
	return e.s.setPermission(d, actorUID, uid, permission)
}

func (s *Service) postBot(d *models.Data, t models.Target, text string) {
	now := s.unix()
	if appendMessage(d, t, models.BotUID, text, now) < 0 {
		return
	}
	stats.MessagesChanged(d, 1, now)
	s.posted("bot")
}

func (s *Service) welcome(d *models.Data, ch *models.Channel, uid int) {
	s.postBot(d, models.ChannelTarget(ch.ChannelID),
		fmt.Sprintf("Hello @%s! 👋 Welcome to %s!", directory.Handle(d, uid), ch.Name))
}

// dispatch runs bot commands for a freshly sent message.
func (s *Service) dispatch(d *models.Data, uid int, t models.Target, text string) bot.Outcome {
	playing := directory.ActiveGame(d, t) != nil
	out := bot.Dispatch(s.env(), d, uid, t, text)
	if out.Command != "" {
		if s.hooks.BotCommand != nil {
			s.hooks.BotCommand(out.Command)
		}
		if playing && directory.ActiveGame(d, t) == nil {
			s.observeGameEnd(d, t)
		}
		logger.Debug("bot_command", "command", out.Command, "uid", uid)
	}
	return out
}

// observeGameEnd reports the outcome of the game that just left t's slot.
func (s *Service) observeGameEnd(d *models.Data, t models.Target) {
	if s.hooks.GameFinished == nil {
		return
	}
	for i := len(d.Games) - 1; i >= 0; i-- {
		if d.Games[i].Target == t {
			s.hooks.GameFinished(string(d.Games[i].Outcome))
			return
		}
	}
}

// followUp performs the work a command asked for once its update committed.
func (s *Service) followUp(t models.Target, out bot.Outcome) {
	if !out.StartGame {
		return
	}
	s.goBackground(func(ctx context.Context) { s.startGame(ctx, t) })
}

// startGame picks a word without holding the store and then installs it.
func (s *Service) startGame(ctx context.Context, t models.Target) {
	if s.picker == nil {
		s.postLater(t, "Hangman is unavailable right now, no word list is loaded.")
		return
	}
	w, err := s.picker.Pick(ctx)
	if err != nil {
		logger.Warn("hangman_pick_failed", "error", err)
		s.postLater(t, "I couldn't find a word for hangman, please try /hangman start again.")
		return
	}
	var installed bool
	err = s.store.Update(func(d *models.Data) error {
		_, installed = bot.InstallGame(s.env(), d, t, w)
		return nil
	})
	if err != nil {
		logger.Error("hangman_install_failed", "error", err)
		return
	}
	if installed && s.hooks.GameStarted != nil {
		s.hooks.GameStarted()
	}
}

// postLater posts a bot message in its own update.
func (s *Service) postLater(t models.Target, text string) {
	if err := s.store.Update(func(d *models.Data) error {
		s.postBot(d, t, text)
		return nil
	}); err != nil {
		logger.Error("bot_post_failed", "error", err)
	}
}

func (s *Service) invite(d *models.Data, inviterUID, channelID, uid int) error {
	ch := directory.Channel(d, channelID)
	switch {
	case ch == nil:
		return errs.BadRequest("Invalid channel ID")
	case !directory.IsChannelMember(d, inviterUID, channelID):
		return errs.Forbidden("Requester is not a member of the channel")
	case !directory.IsValidUser(d, uid):
		return errs.BadRequest("Invalid user ID")
	case directory.IsChannelMember(d, uid, channelID):
		return errs.BadRequest("Invited user is already a member of the channel")
	}
	ch.AllMembers = append(ch.AllMembers, uid)
	stats.ChannelJoined(d, uid, true, s.unix())
	notify.Added(d, models.ChannelTarget(channelID), inviterUID, uid)
	s.welcome(d, ch, uid)
	return nil
}

func (s *Service) addOwner(d *models.Data, actorUID, channelID, uid int) error {
	ch := directory.Channel(d, channelID)
	switch {
	case ch == nil:
		return errs.BadRequest("Invalid channelId")
	case !directory.IsValidUser(d, uid):
		return errs.BadRequest("Invalid uId")
	case !directory.IsChannelMember(d, actorUID, channelID):
		return errs.BadRequest("Requester is not a member of the channel")
	case !directory.IsChannelMember(d, uid, channelID):
		return errs.BadRequest("User is not a member of the channel")
	case directory.IsChannelOwner(d, uid, channelID):
		return errs.BadRequest("User is already an owner of the channel")
	case !directory.HasChannelOwnerPermissions(d, actorUID, channelID):
		return errs.Forbidden("Requester does not have owner permissions")
	}
	ch.OwnerMembers = append(ch.OwnerMembers, uid)
	return nil
}

func (s *Service) removeOwner(d *models.Data, actorUID, channelID, uid int) error {
	ch := directory.Channel(d, channelID)
	switch {
	case ch == nil:
		return errs.BadRequest("Invalid channelId")
	case !directory.IsValidUser(d, uid):
		return errs.BadRequest("Invalid user ID")
	case !directory.HasChannelOwnerPermissions(d, actorUID, channelID):
		return errs.Forbidden("Requester does not have owner permissions")
	case !directory.IsChannelOwner(d, uid, channelID):
		return errs.BadRequest("User is not an owner of the channel")
	case len(ch.OwnerMembers) == 1:
		return errs.BadRequest("User is the only owner of the channel")
	}
	ch.OwnerMembers = models.RemoveInt(ch.OwnerMembers, uid)
	return nil
}

func (s *Service) setPermission(d *models.Data, actorUID, uid, permission int) error {
	target := directory.ActiveUser(d, uid)
	switch {
	case target == nil:
		return errs.BadRequest("invalid user Id")
	case !directory.IsGlobalOwner(d, actorUID):
		return errs.Forbidden("authorised user is not a global owner")
	case permission == models.PermMember && target.Permission == models.PermOwner && directory.GlobalOwnerCount(d) == 1:
		return errs.BadRequest("cannot demote the only global owner")
	case permission != models.PermOwner && permission != models.PermMember:
		return errs.BadRequest("permission level must be 1 or 2")
	case target.Permission == permission:
		return errs.BadRequest("user already have this permission level")
	}
	target.Permission = permission
	logger.AuditEvent("permission_change", "actor", actorUID, "uid", uid, "permission", permission)
	return nil
}
