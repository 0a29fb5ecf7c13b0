package chat

import (
	"k24chat/pkg/directory"
	"k24chat/pkg/errs"
	"k24chat/pkg/models"
	"k24chat/pkg/stats"
)

const maxChannelName = 20

type ChannelSummary struct {
	ChannelID int    `json:"channelId"`
	Name      string `json:"name"`
}

type ChannelDetails struct {
	Name         string           `json:"name"`
	IsPublic     bool             `json:"isPublic"`
	OwnerMembers []models.Profile `json:"ownerMembers"`
	AllMembers   []models.Profile `json:"allMembers"`
}

func profiles(d *models.Data, uids []int) []models.Profile {
	out := make([]models.Profile, 0, len(uids))
	for _, uid := range uids {
		if u := directory.User(d, uid); u != nil {
			out = append(out, u.Profile())
		}
	}
	return out
}

// CreateChannel creates a channel owned by the caller.
func (s *Service) CreateChannel(token, name string, isPublic bool) (int, error) {
	var id int
	err := s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		if n := textLen(name); n < 1 || n > maxChannelName {
			return errs.BadRequest("Channel name must be between 1 and 20 characters")
		}
		id = len(d.Channels)
		d.Channels = append(d.Channels, models.Channel{
			ChannelID:    id,
			Name:         name,
			IsPublic:     isPublic,
			OwnerMembers: []int{uid},
			AllMembers:   []int{uid},
			Messages:     []models.Message{},
		})
		now := s.unix()
		stats.ChannelJoined(d, uid, true, now)
		stats.ChannelsChanged(d, now)
		return nil
	})
	return id, err
}

// ListChannels returns the channels the caller belongs to.
func (s *Service) ListChannels(token string) ([]ChannelSummary, error) {
	out := []ChannelSummary{}
	err := s.store.View(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		for _, ch := range d.Channels {
			if models.ContainsInt(ch.AllMembers, uid) {
				out = append(out, ChannelSummary{ChannelID: ch.ChannelID, Name: ch.Name})
			}
		}
		return nil
	})
	return out, err
}

// ListAllChannels returns every channel, private ones included.
func (s *Service) ListAllChannels(token string) ([]ChannelSummary, error) {
	out := []ChannelSummary{}
	err := s.store.View(func(d *models.Data) error {
		if _, err := authenticate(d, token); err != nil {
			return err
		}
		for _, ch := range d.Channels {
			out = append(out, ChannelSummary{ChannelID: ch.ChannelID, Name: ch.Name})
		}
		return nil
	})
	return out, err
}

func (s *Service) ChannelDetails(token string, channelID int) (ChannelDetails, error) {
	var out ChannelDetails
	err := s.store.View(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		ch := directory.Channel(d, channelID)
		if ch == nil {
			return errs.BadRequest("invalid channel")
		}
		if !models.ContainsInt(ch.AllMembers, uid) {
			return errs.Forbidden("authorised user is not a member of the channel")
		}
		out = ChannelDetails{
			Name:         ch.Name,
			IsPublic:     ch.IsPublic,
			OwnerMembers: profiles(d, ch.OwnerMembers),
			AllMembers:   profiles(d, ch.AllMembers),
		}
		return nil
	})
	return out, err
}

// JoinChannel adds the caller to a channel. Private channels only admit
// global owners.
func (s *Service) JoinChannel(token string, channelID int) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		ch := directory.Channel(d, channelID)
		switch {
		case ch == nil:
			return errs.BadRequest("Invalid channelId")
		case models.ContainsInt(ch.AllMembers, uid):
			return errs.BadRequest("User is already a member of the channel")
		case !ch.IsPublic && !directory.IsGlobalOwner(d, uid):
			return errs.Forbidden("User is not a global owner and the channel is private")
		}
		ch.AllMembers = append(ch.AllMembers, uid)
		stats.ChannelJoined(d, uid, true, s.unix())
		s.welcome(d, ch, uid)
		return nil
	})
}

func (s *Service) InviteToChannel(token string, channelID, uid int) error {
	return s.store.Update(func(d *models.Data) error {
		inviter, err := authenticate(d, token)
		if err != nil {
			return err
		}
		return s.invite(d, inviter, channelID, uid)
	})
}

// LeaveChannel removes the caller from the channel's members and owners.
func (s *Service) LeaveChannel(token string, channelID int) error {
	return s.store.Update(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		ch := directory.Channel(d, channelID)
		switch {
		case ch == nil:
			return errs.BadRequest("Invalid channelId")
		case !models.ContainsInt(ch.AllMembers, uid):
			return errs.Forbidden("User is not a member of the channel")
		case ch.Standup != nil && ch.Standup.StarterUID == uid:
			return errs.BadRequest("User is the starter of an active standup in the channel")
		}
		ch.AllMembers = models.RemoveInt(ch.AllMembers, uid)
		ch.OwnerMembers = models.RemoveInt(ch.OwnerMembers, uid)
		stats.ChannelJoined(d, uid, false, s.unix())
		return nil
	})
}

func (s *Service) AddChannelOwner(token string, channelID, uid int) error {
	return s.store.Update(func(d *models.Data) error {
		actor, err := authenticate(d, token)
		if err != nil {
			return err
		}
		return s.addOwner(d, actor, channelID, uid)
	})
}

func (s *Service) RemoveChannelOwner(token string, channelID, uid int) error {
	return s.store.Update(func(d *models.Data) error {
		actor, err := authenticate(d, token)
		if err != nil {
			return err
		}
		return s.removeOwner(d, actor, channelID, uid)
	})
}

// ChannelMessages pages through a channel's history, newest first.
func (s *Service) ChannelMessages(token string, channelID, start int) (Page, error) {
	var out Page
	err := s.store.View(func(d *models.Data) error {
		uid, err := authenticate(d, token)
		if err != nil {
			return err
		}
		ch := directory.Channel(d, channelID)
		if ch == nil {
			return errs.BadRequest("Invalid channelId")
		}
		if !models.ContainsInt(ch.AllMembers, uid) {
			return errs.Forbidden("Requester is not a member of the channel")
		}
		out, err = s.page(ch.Messages, uid, start, "invalid start index")
		return err
	})
	return out, err
}
