package models

import (
	"encoding/json"
	"fmt"
)

// Outcome of a hangman game.
type Outcome string

const (
	OutcomeUndetermined Outcome = "undetermined"
	OutcomeWin          Outcome = "win"
	OutcomeLose         Outcome = "lose"
)

type HangmanGame struct {
	GameID      int      `json:"gameId"`
	Target      Target   `json:"target"`
	Word        string   `json:"word"`
	Definition  string   `json:"definition"`
	MaskedWord  string   `json:"maskedWord"`
	LettersLeft int      `json:"lettersLeft"`
	GuessesLeft int      `json:"guessesLeft"`
	Guesses     []string `json:"guesses"`
	Outcome     Outcome  `json:"outcome"`
}

// WorkspaceStats holds the workspace-wide counter history.
type WorkspaceStats struct {
	ChannelsExist []Point `json:"channelsExist"`
	DMsExist      []Point `json:"dmsExist"`
	MessagesExist []Point `json:"messagesExist"`
}

// Data is the whole persisted workspace.
type Data struct {
	Users          []User           `json:"users"`
	Channels       []Channel        `json:"channels"`
	DMs            []DM             `json:"dms"`
	Bots           []User           `json:"bots"`
	Games          []HangmanGame    `json:"games"`
	Pending        []PendingMessage `json:"pending"`
	LastMessageID  int              `json:"messageId"`
	WorkspaceStats WorkspaceStats   `json:"workspaceStats"`
}

// NewData returns an empty workspace with its counters started at now.
func NewData(now int64) *Data {
	return &Data{
		Users:    []User{},
		Channels: []Channel{},
		DMs:      []DM{},
		Bots:     []User{BotUser()},
		Games:    []HangmanGame{},
		Pending:  []PendingMessage{},
		WorkspaceStats: WorkspaceStats{
			ChannelsExist: []Point{{Num: 0, TimeStamp: now}},
			DMsExist:      []Point{{Num: 0, TimeStamp: now}},
			MessagesExist: []Point{{Num: 0, TimeStamp: now}},
		},
	}
}

// NextMessageID hands out the next globally unique message id.
func (d *Data) NextMessageID() int {
	d.LastMessageID++
	return d.LastMessageID
}

func (d *Data) Marshal() ([]byte, error) {
	return json.Marshal(d)
}

func Unmarshal(b []byte) (*Data, error) {
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if len(d.Bots) == 0 {
		d.Bots = []User{BotUser()}
	}
	return &d, nil
}

// Clone returns a deep copy of d.
func (d *Data) Clone() *Data {
	b, err := d.Marshal()
	if err != nil {
		panic(fmt.Sprintf("models: clone: %v", err))
	}
	out, err := Unmarshal(b)
	if err != nil {
		panic(fmt.Sprintf("models: clone: %v", err))
	}
	return out
}

// Counts summarises the workspace for logs and tooling.
type Counts struct {
	Users    int `json:"users"`
	Channels int `json:"channels"`
	DMs      int `json:"dms"`
	Messages int `json:"messages"`
	Games    int `json:"games"`
	Pending  int `json:"pending"`
}

func (d *Data) Counts() Counts {
	c := Counts{
		Users:    len(d.Users),
		Channels: len(d.Channels),
		DMs:      len(d.DMs),
		Games:    len(d.Games),
		Pending:  len(d.Pending),
	}
	for i := range d.Channels {
		c.Messages += len(d.Channels[i].Messages)
	}
	for i := range d.DMs {
		c.Messages += len(d.DMs[i].Messages)
	}
	return c
}
