package models

// global permission levels
const (
	PermOwner  = 1
	PermMember = 2
)

// BotUID is the reserved author id of every K-24 bot message.
const BotUID = -100

// Point is one entry of an append-only counter series.
type Point struct {
	Num       int   `json:"num"`
	TimeStamp int64 `json:"timeStamp"`
}

// UserStats holds the per-user counter history.
type UserStats struct {
	ChannelsJoined []Point `json:"channelsJoined"`
	DMsJoined      []Point `json:"dmsJoined"`
	MessagesSent   []Point `json:"messagesSent"`
}

// Notification points at the channel or dm it came from; the other side is -1.
type Notification struct {
	ChannelID           int    `json:"channelId"`
	DMID                int    `json:"dmId"`
	NotificationMessage string `json:"notificationMessage"`
}

type User struct {
	UID           int            `json:"uId"`
	Email         string         `json:"email"`
	PasswordHash  string         `json:"passwordHash"`
	NameFirst     string         `json:"nameFirst"`
	NameLast      string         `json:"nameLast"`
	Handle        string         `json:"handleStr"`
	Permission    int            `json:"permission"`
	Tokens        []string       `json:"tokens"`
	ProfileImgURL string         `json:"profileImgUrl"`
	ResetCode     string         `json:"resetCode,omitempty"`
	Removed       bool           `json:"isRemoved"`
	Notifications []Notification `json:"notifications"`
	Stats         UserStats      `json:"userStats"`
}

// Profile is the public view of a user.
type Profile struct {
	UID           int    `json:"uId"`
	Email         string `json:"email"`
	NameFirst     string `json:"nameFirst"`
	NameLast      string `json:"nameLast"`
	Handle        string `json:"handleStr"`
	ProfileImgURL string `json:"profileImgUrl"`
}

func (u *User) Profile() Profile {
	return Profile{
		UID:           u.UID,
		Email:         u.Email,
		NameFirst:     u.NameFirst,
		NameLast:      u.NameLast,
		Handle:        u.Handle,
		ProfileImgURL: u.ProfileImgURL,
	}
}

// BotUser returns the synthetic K-24 identity.
func BotUser() User {
	return User{
		UID:        BotUID,
		Email:      "k24bot@k24chat.local",
		NameFirst:  "K-24",
		NameLast:   "Bot",
		Handle:     "K-24 Bot",
		Permission: PermMember,
	}
}
