package notify

import (
	"fmt"
	"reflect"
	"testing"

	"k24chat/pkg/models"
)

func TestExtractTags(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"hello @alice!", []string{"alice"}},
		{"@alice @bob @alice", []string{"alice", "bob"}},
		{"@bob's thing", []string{"bob"}},
		{"mail me at x@", nil},
		{"@@carol", []string{"carol"}},
		{"@dan_the_man", []string{"dan"}},
	}
	for _, c := range cases {
		if got := ExtractTags(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("ExtractTags(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func workspace() *models.Data {
	d := models.NewData(0)
	d.Users = []models.User{
		{UID: 0, Handle: "alice"},
		{UID: 1, Handle: "bob"},
		{UID: 2, Handle: "carol"},
	}
	d.Channels = []models.Channel{{ChannelID: 0, Name: "general", AllMembers: []int{0, 1}, OwnerMembers: []int{0}}}
	return d
}

func TestTagsOnlyNotifyMembersOnce(t *testing.T) {
	d := workspace()
	got := Tags(d, models.ChannelTarget(0), 0, "@bob @bob @carol look at this long message")
	if !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("recipients = %v", got)
	}
	bob := d.Users[1]
	if len(bob.Notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(bob.Notifications))
	}
	n := bob.Notifications[0]
	want := "alice tagged you in general: @bob @bob @carol loo"
	if n.NotificationMessage != want || n.ChannelID != 0 || n.DMID != -1 {
		t.Fatalf("unexpected notification %+v", n)
	}
	if len(d.Users[2].Notifications) != 0 {
		t.Fatalf("non-member was notified")
	}
}

func TestNotificationsPrependAndCap(t *testing.T) {
	d := workspace()
	for i := 0; i < 25; i++ {
		Push(d, 1, models.ChannelTarget(0), fmt.Sprintf("n%d", i))
	}
	got := Latest(d, 1)
	if len(got) != ReadLimit {
		t.Fatalf("expected %d, got %d", ReadLimit, len(got))
	}
	if got[0].NotificationMessage != "n24" {
		t.Fatalf("most recent should come first, got %s", got[0].NotificationMessage)
	}
	if len(d.Users[1].Notifications) != 25 {
		t.Fatalf("storage should be uncapped")
	}
}

func TestReactAndAdded(t *testing.T) {
	d := workspace()
	React(d, models.ChannelTarget(0), 0, 1)
	Added(d, models.ChannelTarget(0), 0, 1)
	if d.Users[0].Notifications[0].NotificationMessage != "bob reacted to your message in general" {
		t.Fatalf("react text: %s", d.Users[0].Notifications[0].NotificationMessage)
	}
	if d.Users[1].Notifications[0].NotificationMessage != "alice added you to general" {
		t.Fatalf("added text: %s", d.Users[1].Notifications[0].NotificationMessage)
	}
}
