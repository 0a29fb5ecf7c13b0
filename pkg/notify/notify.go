package notify

import (
	"fmt"

	"k24chat/pkg/directory"
	"k24chat/pkg/models"
)

// ReadLimit is how many notifications a read returns.
const ReadLimit = 20

// PreviewLength bounds the message excerpt in a tag notification.
const PreviewLength = 20

// ExtractTags returns the distinct handles tagged in text, in order of first
// appearance. A handle runs from after '@' up to the first character outside
// [A-Za-z0-9].
func ExtractTags(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < len(text); i++ {
		if text[i] != '@' {
			continue
		}
		j := i + 1
		for j < len(text) && isHandleByte(text[j]) {
			j++
		}
		h := text[i+1 : j]
		if h != "" && !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	return out
}

func isHandleByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func preview(text string) string {
	r := []rune(text)
	if len(r) > PreviewLength {
		r = r[:PreviewLength]
	}
	return string(r)
}

// Push prepends a notification for uid.
func Push(d *models.Data, uid int, t models.Target, msg string) {
	u := directory.ActiveUser(d, uid)
	if u == nil {
		return
	}
	n := models.Notification{ChannelID: t.ChannelID, DMID: t.DMID, NotificationMessage: msg}
	u.Notifications = append([]models.Notification{n}, u.Notifications...)
}

// Tags notifies every tagged member of t. Returns the recipients.
func Tags(d *models.Data, t models.Target, senderUID int, text string) []int {
	name := directory.TargetName(d, t)
	sender := directory.Handle(d, senderUID)
	var notified []int
	for _, h := range ExtractTags(text) {
		uid, ok := directory.UIDFromHandle(d, h)
		if !ok || !directory.IsMember(d, uid, t) {
			continue
		}
		Push(d, uid, t, fmt.Sprintf("%s tagged you in %s: %s", sender, name, preview(text)))
		notified = append(notified, uid)
	}
	return notified
}

// React tells the author of a message that reactorUID reacted to it.
func React(d *models.Data, t models.Target, authorUID, reactorUID int) {
	Push(d, authorUID, t, fmt.Sprintf("%s reacted to your message in %s",
		directory.Handle(d, reactorUID), directory.TargetName(d, t)))
}

// Added tells recipientUID that inviterUID added them to t.
func Added(d *models.Data, t models.Target, inviterUID, recipientUID int) {
	Push(d, recipientUID, t, fmt.Sprintf("%s added you to %s",
		directory.Handle(d, inviterUID), directory.TargetName(d, t)))
}

// Latest returns up to ReadLimit of uid's most recent notifications.
func Latest(d *models.Data, uid int) []models.Notification {
	u := directory.ActiveUser(d, uid)
	if u == nil {
		return []models.Notification{}
	}
	n := len(u.Notifications)
	if n > ReadLimit {
		n = ReadLimit
	}
	return append([]models.Notification{}, u.Notifications[:n]...)
}
