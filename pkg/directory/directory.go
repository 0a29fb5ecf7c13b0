// Package directory resolves identities and permissions over a workspace.
// Every lookup is read-only and answers negatively for unknown ids.
package directory

import "k24chat/pkg/models"

// UIDFromToken resolves a session token to its active user.
func UIDFromToken(d *models.Data, token string) (int, bool) {
	if token == "" {
		return 0, false
	}
	for i := range d.Users {
		u := &d.Users[i]
		if u.Removed {
			continue
		}
		for _, t := range u.Tokens {
			if t == token {
				return u.UID, true
			}
		}
	}
	return 0, false
}

// UIDFromHandle resolves a handle to its active user.
func UIDFromHandle(d *models.Data, handle string) (int, bool) {
	if handle == "" {
		return 0, false
	}
	for i := range d.Users {
		if !d.Users[i].Removed && d.Users[i].Handle == handle {
			return d.Users[i].UID, true
		}
	}
	return 0, false
}

// User returns the user with uid, removed or not.
func User(d *models.Data, uid int) *models.User {
	for i := range d.Users {
		if d.Users[i].UID == uid {
			return &d.Users[i]
		}
	}
	return nil
}

// ActiveUser returns the user with uid unless it was removed.
func ActiveUser(d *models.Data, uid int) *models.User {
	u := User(d, uid)
	if u == nil || u.Removed {
		return nil
	}
	return u
}

func IsValidUser(d *models.Data, uid int) bool { return ActiveUser(d, uid) != nil }

// Handle returns the handle for uid, including the bot.
func Handle(d *models.Data, uid int) string {
	if uid == models.BotUID {
		return models.BotUser().Handle
	}
	if u := User(d, uid); u != nil {
		return u.Handle
	}
	return ""
}

func Channel(d *models.Data, channelID int) *models.Channel {
	for i := range d.Channels {
		if d.Channels[i].ChannelID == channelID {
			return &d.Channels[i]
		}
	}
	return nil
}

func DM(d *models.Data, dmID int) *models.DM {
	for i := range d.DMs {
		if d.DMs[i].DMID == dmID {
			return &d.DMs[i]
		}
	}
	return nil
}

func IsChannelMember(d *models.Data, uid, channelID int) bool {
	ch := Channel(d, channelID)
	return ch != nil && models.ContainsInt(ch.AllMembers, uid)
}

func IsChannelOwner(d *models.Data, uid, channelID int) bool {
	ch := Channel(d, channelID)
	return ch != nil && models.ContainsInt(ch.OwnerMembers, uid)
}

func IsDMMember(d *models.Data, uid, dmID int) bool {
	dm := DM(d, dmID)
	return dm != nil && models.ContainsInt(dm.Members, uid)
}

func IsDMOwner(d *models.Data, uid, dmID int) bool {
	dm := DM(d, dmID)
	return dm != nil && dm.Owner != nil && *dm.Owner == uid
}

// IsGlobalOwner reports whether uid holds permission level 1.
func IsGlobalOwner(d *models.Data, uid int) bool {
	u := ActiveUser(d, uid)
	return u != nil && u.Permission == models.PermOwner
}

// GlobalOwnerCount counts the active permission level 1 users.
func GlobalOwnerCount(d *models.Data) int {
	n := 0
	for i := range d.Users {
		if !d.Users[i].Removed && d.Users[i].Permission == models.PermOwner {
			n++
		}
	}
	return n
}

// HasChannelOwnerPermissions is the elevated check: a channel owner, or a
// global owner who is a member.
func HasChannelOwnerPermissions(d *models.Data, uid, channelID int) bool {
	if IsChannelOwner(d, uid, channelID) {
		return true
	}
	return IsGlobalOwner(d, uid) && IsChannelMember(d, uid, channelID)
}

// IsMember checks membership of either kind of target.
func IsMember(d *models.Data, uid int, t models.Target) bool {
	if t.IsChannel() {
		return IsChannelMember(d, uid, t.ChannelID)
	}
	return IsDMMember(d, uid, t.DMID)
}

// HasElevated reports elevated permission over a target. In a dm only the
// creator is elevated.
func HasElevated(d *models.Data, uid int, t models.Target) bool {
	if t.IsChannel() {
		return HasChannelOwnerPermissions(d, uid, t.ChannelID)
	}
	return IsDMOwner(d, uid, t.DMID)
}

// TargetExists reports whether the channel or dm is still there.
func TargetExists(d *models.Data, t models.Target) bool {
	if t.IsChannel() {
		return Channel(d, t.ChannelID) != nil
	}
	return DM(d, t.DMID) != nil
}

// TargetName returns the display name of a channel or dm.
func TargetName(d *models.Data, t models.Target) string {
	if t.IsChannel() {
		if ch := Channel(d, t.ChannelID); ch != nil {
			return ch.Name
		}
		return ""
	}
	if dm := DM(d, t.DMID); dm != nil {
		return dm.Name
	}
	return ""
}

// Messages returns a pointer to the message log of a target.
func Messages(d *models.Data, t models.Target) *[]models.Message {
	if t.IsChannel() {
		if ch := Channel(d, t.ChannelID); ch != nil {
			return &ch.Messages
		}
		return nil
	}
	if dm := DM(d, t.DMID); dm != nil {
		return &dm.Messages
	}
	return nil
}

// MessageRef locates a stored message.
type MessageRef struct {
	Target  models.Target
	Index   int
	Message *models.Message
}

// FindMessage searches every channel and dm for messageID.
func FindMessage(d *models.Data, messageID int) (MessageRef, bool) {
	for i := range d.Channels {
		ch := &d.Channels[i]
		for j := range ch.Messages {
			if ch.Messages[j].MessageID == messageID {
				return MessageRef{Target: models.ChannelTarget(ch.ChannelID), Index: j, Message: &ch.Messages[j]}, true
			}
		}
	}
	for i := range d.DMs {
		dm := &d.DMs[i]
		for j := range dm.Messages {
			if dm.Messages[j].MessageID == messageID {
				return MessageRef{Target: models.DMTarget(dm.DMID), Index: j, Message: &dm.Messages[j]}, true
			}
		}
	}
	return MessageRef{}, false
}

// FindAccessibleMessage only finds messages in targets uid belongs to.
func FindAccessibleMessage(d *models.Data, uid, messageID int) (MessageRef, bool) {
	ref, ok := FindMessage(d, messageID)
	if !ok || !IsMember(d, uid, ref.Target) {
		return MessageRef{}, false
	}
	return ref, true
}

// ActiveGame returns the game currently active on a target.
func ActiveGame(d *models.Data, t models.Target) *models.HangmanGame {
	var slot *int
	if t.IsChannel() {
		if ch := Channel(d, t.ChannelID); ch != nil {
			slot = ch.ActiveGame
		}
	} else if dm := DM(d, t.DMID); dm != nil {
		slot = dm.ActiveGame
	}
	if slot == nil || *slot < 0 || *slot >= len(d.Games) {
		return nil
	}
	return &d.Games[*slot]
}

// SetActiveGame points a target's game slot at gameID, or clears it when nil.
func SetActiveGame(d *models.Data, t models.Target, gameID *int) {
	if t.IsChannel() {
		if ch := Channel(d, t.ChannelID); ch != nil {
			ch.ActiveGame = gameID
		}
		return
	}
	if dm := DM(d, t.DMID); dm != nil {
		dm.ActiveGame = gameID
	}
}
