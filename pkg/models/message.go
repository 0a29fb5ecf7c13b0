package models

// ValidReactID is the only react kind the workspace knows about.
const ValidReactID = 1

// Target identifies a channel or a dm; the unused side is -1.
type Target struct {
	ChannelID int `json:"channelId"`
	DMID      int `json:"dmId"`
}

func ChannelTarget(channelID int) Target { return Target{ChannelID: channelID, DMID: -1} }
func DMTarget(dmID int) Target           { return Target{ChannelID: -1, DMID: dmID} }

func (t Target) IsChannel() bool { return t.ChannelID != -1 }
func (t Target) IsDM() bool      { return t.DMID != -1 }

type React struct {
	ReactID int   `json:"reactId"`
	UIDs    []int `json:"uIds"`
}

type Message struct {
	MessageID int     `json:"messageId"`
	UID       int     `json:"uId"`
	Message   string  `json:"message"`
	TimeSent  int64   `json:"timeSent"`
	Reacts    []React `json:"reacts"`
	IsPinned  bool    `json:"isPinned"`
}

// ReactView is a react as seen by a particular reader.
type ReactView struct {
	ReactID           int   `json:"reactId"`
	UIDs              []int `json:"uIds"`
	IsThisUserReacted bool  `json:"isThisUserReacted"`
}

// MessageView is the wire shape of a message for a given reader.
type MessageView struct {
	MessageID int         `json:"messageId"`
	UID       int         `json:"uId"`
	Message   string      `json:"message"`
	TimeSent  int64       `json:"timeSent"`
	Reacts    []ReactView `json:"reacts"`
	IsPinned  bool        `json:"isPinned"`
}

// ViewFor renders m for the reader uid.
func (m *Message) ViewFor(uid int) MessageView {
	reacts := make([]ReactView, 0, len(m.Reacts))
	for _, r := range m.Reacts {
		uids := append([]int{}, r.UIDs...)
		reacted := false
		for _, id := range uids {
			if id == uid {
				reacted = true
				break
			}
		}
		reacts = append(reacts, ReactView{ReactID: r.ReactID, UIDs: uids, IsThisUserReacted: reacted})
	}
	return MessageView{
		MessageID: m.MessageID,
		UID:       m.UID,
		Message:   m.Message,
		TimeSent:  m.TimeSent,
		Reacts:    reacts,
		IsPinned:  m.IsPinned,
	}
}

// PendingMessage is a send-later message waiting for its timestamp.
type PendingMessage struct {
	Target  Target  `json:"target"`
	Message Message `json:"message"`
}
