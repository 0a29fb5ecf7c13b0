package models

// Standup is the buffer of an active channel standup.
type Standup struct {
	StarterUID int      `json:"starterUId"`
	TimeFinish int64    `json:"timeFinish"`
	Lines      []string `json:"lines"`
}

type Channel struct {
	ChannelID    int       `json:"channelId"`
	Name         string    `json:"name"`
	IsPublic     bool      `json:"isPublic"`
	OwnerMembers []int     `json:"ownerMembers"`
	AllMembers   []int     `json:"allMembers"`
	Messages     []Message `json:"messages"`
	Standup      *Standup  `json:"standup,omitempty"`
	ActiveGame   *int      `json:"activeGame,omitempty"`
}

type DM struct {
	DMID       int       `json:"dmId"`
	Name       string    `json:"name"`
	Owner      *int      `json:"owner,omitempty"`
	Members    []int     `json:"members"`
	Messages   []Message `json:"messages"`
	ActiveGame *int      `json:"activeGame,omitempty"`
}

// ContainsInt reports whether id is in ids.
func ContainsInt(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// RemoveInt returns ids without any occurrence of id.
func RemoveInt(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
