// Package stats keeps the append-only usage counters of users and the
// workspace and derives the involvement and utilization rates from them.
package stats

import (
	"k24chat/pkg/directory"
	"k24chat/pkg/models"
)

func last(series []models.Point) int {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1].Num
}

func push(series *[]models.Point, num int, now int64) {
	*series = append(*series, models.Point{Num: num, TimeStamp: now})
}

// NewUserStats starts every user series at zero.
func NewUserStats(now int64) models.UserStats {
	return models.UserStats{
		ChannelsJoined: []models.Point{{Num: 0, TimeStamp: now}},
		DMsJoined:      []models.Point{{Num: 0, TimeStamp: now}},
		MessagesSent:   []models.Point{{Num: 0, TimeStamp: now}},
	}
}

func step(increase bool) int {
	if increase {
		return 1
	}
	return -1
}

func ChannelJoined(d *models.Data, uid int, increase bool, now int64) {
	if u := directory.User(d, uid); u != nil {
		push(&u.Stats.ChannelsJoined, last(u.Stats.ChannelsJoined)+step(increase), now)
	}
}

func DMJoined(d *models.Data, uid int, increase bool, now int64) {
	if u := directory.User(d, uid); u != nil {
		push(&u.Stats.DMsJoined, last(u.Stats.DMsJoined)+step(increase), now)
	}
}

// MessageSent counts a message for its author. Bot messages are not counted.
func MessageSent(d *models.Data, uid int, now int64) {
	if u := directory.User(d, uid); u != nil {
		push(&u.Stats.MessagesSent, last(u.Stats.MessagesSent)+1, now)
	}
}

// ChannelsChanged records the current channel count.
func ChannelsChanged(d *models.Data, now int64) {
	push(&d.WorkspaceStats.ChannelsExist, len(d.Channels), now)
}

// DMsChanged records the current dm count.
func DMsChanged(d *models.Data, now int64) {
	push(&d.WorkspaceStats.DMsExist, len(d.DMs), now)
}

// MessagesChanged moves the workspace message count by delta.
func MessagesChanged(d *models.Data, delta int, now int64) {
	push(&d.WorkspaceStats.MessagesExist, last(d.WorkspaceStats.MessagesExist)+delta, now)
}

type ChannelsJoinedPoint struct {
	NumChannelsJoined int   `json:"numChannelsJoined"`
	TimeStamp         int64 `json:"timeStamp"`
}

type DMsJoinedPoint struct {
	NumDMsJoined int   `json:"numDmsJoined"`
	TimeStamp    int64 `json:"timeStamp"`
}

type MessagesSentPoint struct {
	NumMessagesSent int   `json:"numMessagesSent"`
	TimeStamp       int64 `json:"timeStamp"`
}

type ChannelsExistPoint struct {
	NumChannelsExist int   `json:"numChannelsExist"`
	TimeStamp        int64 `json:"timeStamp"`
}

type DMsExistPoint struct {
	NumDMsExist int   `json:"numDmsExist"`
	TimeStamp   int64 `json:"timeStamp"`
}

type MessagesExistPoint struct {
	NumMessagesExist int   `json:"numMessagesExist"`
	TimeStamp        int64 `json:"timeStamp"`
}

// UserReport is the user/stats payload.
type UserReport struct {
	ChannelsJoined  []ChannelsJoinedPoint `json:"channelsJoined"`
	DMsJoined       []DMsJoinedPoint      `json:"dmsJoined"`
	MessagesSent    []MessagesSentPoint   `json:"messagesSent"`
	InvolvementRate float64               `json:"involvementRate"`
}

// WorkspaceReport is the users/stats payload.
type WorkspaceReport struct {
	ChannelsExist   []ChannelsExistPoint `json:"channelsExist"`
	DMsExist        []DMsExistPoint      `json:"dmsExist"`
	MessagesExist   []MessagesExistPoint `json:"messagesExist"`
	UtilizationRate float64              `json:"utilizationRate"`
}

// ForUser builds the report for uid.
func ForUser(d *models.Data, uid int) UserReport {
	var r UserReport
	u := directory.User(d, uid)
	if u == nil {
		return r
	}
	r.ChannelsJoined = make([]ChannelsJoinedPoint, 0, len(u.Stats.ChannelsJoined))
	for _, p := range u.Stats.ChannelsJoined {
		r.ChannelsJoined = append(r.ChannelsJoined, ChannelsJoinedPoint{p.Num, p.TimeStamp})
	}
	r.DMsJoined = make([]DMsJoinedPoint, 0, len(u.Stats.DMsJoined))
	for _, p := range u.Stats.DMsJoined {
		r.DMsJoined = append(r.DMsJoined, DMsJoinedPoint{p.Num, p.TimeStamp})
	}
	r.MessagesSent = make([]MessagesSentPoint, 0, len(u.Stats.MessagesSent))
	for _, p := range u.Stats.MessagesSent {
		r.MessagesSent = append(r.MessagesSent, MessagesSentPoint{p.Num, p.TimeStamp})
	}
	r.InvolvementRate = InvolvementRate(d, uid)
	return r
}

// ForWorkspace builds the workspace report.
func ForWorkspace(d *models.Data) WorkspaceReport {
	ws := d.WorkspaceStats
	r := WorkspaceReport{
		ChannelsExist: make([]ChannelsExistPoint, 0, len(ws.ChannelsExist)),
		DMsExist:      make([]DMsExistPoint, 0, len(ws.DMsExist)),
		MessagesExist: make([]MessagesExistPoint, 0, len(ws.MessagesExist)),
	}
	for _, p := range ws.ChannelsExist {
		r.ChannelsExist = append(r.ChannelsExist, ChannelsExistPoint{p.Num, p.TimeStamp})
	}
	for _, p := range ws.DMsExist {
		r.DMsExist = append(r.DMsExist, DMsExistPoint{p.Num, p.TimeStamp})
	}
	for _, p := range ws.MessagesExist {
		r.MessagesExist = append(r.MessagesExist, MessagesExistPoint{p.Num, p.TimeStamp})
	}
	r.UtilizationRate = UtilizationRate(d)
	return r
}

// InvolvementRate is the share of channels, dms and messages uid takes part
// in, clamped to [0, 1].
func InvolvementRate(d *models.Data, uid int) float64 {
	u := directory.User(d, uid)
	if u == nil {
		return 0
	}
	num := last(u.Stats.ChannelsJoined) + last(u.Stats.DMsJoined) + last(u.Stats.MessagesSent)
	den := len(d.Channels) + len(d.DMs) + last(d.WorkspaceStats.MessagesExist)
	if den <= 0 || num <= 0 {
		return 0
	}
	rate := float64(num) / float64(den)
	if rate > 1 {
		rate = 1
	}
	return rate
}

// UtilizationRate is the share of active users in at least one channel or dm.
func UtilizationRate(d *models.Data) float64 {
	active, involved := 0, 0
	for i := range d.Users {
		u := &d.Users[i]
		if u.Removed {
			continue
		}
		active++
		if last(u.Stats.ChannelsJoined) > 0 || last(u.Stats.DMsJoined) > 0 {
			involved++
		}
	}
	if active == 0 {
		return 0
	}
	return float64(involved) / float64(active)
}
