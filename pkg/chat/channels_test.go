package chat

import (
	"fmt"
	"testing"

	"k24chat/pkg/errs"
	"k24chat/pkg/models"
)

func TestChannelMembership(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.people(t)
	pub := f.channel(t, bob, "general", true)
	priv := f.channel(t, bob, "secret", false)

	wantKind(t, f.s.JoinChannel(carol.Token, priv), errs.KindForbidden)
	if err := f.s.JoinChannel(alice.Token, priv); err != nil {
		t.Fatalf("global owner join private: %v", err)
	}
	if err := f.s.JoinChannel(carol.Token, pub); err != nil {
		t.Fatalf("join public: %v", err)
	}
	wantKind(t, f.s.JoinChannel(carol.Token, pub), errs.KindBadRequest)

	msgs := f.newest(t, carol, pub)
	if len(msgs) != 1 || msgs[0].UID != models.BotUID || msgs[0].Message != "Hello @carolsinger! 👋 Welcome to general!" {
		t.Fatalf("welcome = %+v", msgs)
	}

	list, err := f.s.ListChannels(carol.Token)
	if err != nil || len(list) != 1 || list[0].Name != "general" {
		t.Fatalf("list = %+v, %v", list, err)
	}
	all, err := f.s.ListAllChannels(carol.Token)
	if err != nil || len(all) != 2 {
		t.Fatalf("listAll = %+v, %v", all, err)
	}

	det, err := f.s.ChannelDetails(carol.Token, pub)
	if err != nil || len(det.AllMembers) != 2 || len(det.OwnerMembers) != 1 || det.OwnerMembers[0].Handle != "bobbuilder" {
		t.Fatalf("details = %+v, %v", det, err)
	}
	_, err = f.s.ChannelDetails(carol.Token, priv)
	wantKind(t, err, errs.KindForbidden)
	_, err = f.s.ChannelDetails(carol.Token, 9)
	wantKind(t, err, errs.KindBadRequest)

	if err := f.s.LeaveChannel(carol.Token, pub); err != nil {
		t.Fatalf("leave: %v", err)
	}
	wantKind(t, f.s.LeaveChannel(carol.Token, pub), errs.KindForbidden)
}

func TestInviteNotifiesAndWelcomes(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.people(t)
	ch := f.channel(t, alice, "general", true)

	wantKind(t, f.s.InviteToChannel(bob.Token, ch, carol.AuthUserID), errs.KindForbidden)
	wantKind(t, f.s.InviteToChannel(alice.Token, ch, 77), errs.KindBadRequest)
	if err := f.s.InviteToChannel(alice.Token, ch, bob.AuthUserID); err != nil {
		t.Fatalf("invite: %v", err)
	}
	wantKind(t, f.s.InviteToChannel(alice.Token, ch, bob.AuthUserID), errs.KindBadRequest)

	notes, err := f.s.Notifications(bob.Token)
	if err != nil || len(notes) != 1 || notes[0].NotificationMessage != "alicesmith added you to general" || notes[0].ChannelID != ch || notes[0].DMID != -1 {
		t.Fatalf("notifications = %+v, %v", notes, err)
	}
}

func TestChannelOwners(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.people(t)
	ch := f.channel(t, bob, "general", true, carol)

	wantKind(t, f.s.AddChannelOwner(carol.Token, ch, carol.AuthUserID), errs.KindForbidden)
	wantKind(t, f.s.AddChannelOwner(bob.Token, ch, alice.AuthUserID), errs.KindBadRequest)
	if err := f.s.AddChannelOwner(bob.Token, ch, carol.AuthUserID); err != nil {
		t.Fatalf("addowner: %v", err)
	}
	wantKind(t, f.s.AddChannelOwner(bob.Token, ch, carol.AuthUserID), errs.KindBadRequest)

	if err := f.s.RemoveChannelOwner(carol.Token, ch, bob.AuthUserID); err != nil {
		t.Fatalf("removeowner: %v", err)
	}
	wantKind(t, f.s.RemoveChannelOwner(carol.Token, ch, bob.AuthUserID), errs.KindBadRequest)
	wantKind(t, f.s.RemoveChannelOwner(carol.Token, ch, carol.AuthUserID), errs.KindBadRequest)
	wantKind(t, f.s.RemoveChannelOwner(bob.Token, ch, carol.AuthUserID), errs.KindForbidden)

	// a global owner only gets owner rights once they are a member
	wantKind(t, f.s.RemoveChannelOwner(alice.Token, ch, carol.AuthUserID), errs.KindForbidden)
	if err := f.s.JoinChannel(alice.Token, ch); err != nil {
		t.Fatal(err)
	}
	if err := f.s.AddChannelOwner(alice.Token, ch, bob.AuthUserID); err != nil {
		t.Fatalf("global owner addowner: %v", err)
	}
}

func TestPagination(t *testing.T) {
	f := newFixture(t)
	alice, _, _ := f.people(t)
	ch := f.channel(t, alice, "general", true)
	for i := 0; i <= PageSize; i++ {
		f.send(t, alice, ch, fmt.Sprintf("msg %d", i))
	}

	// start counts from the oldest message and each page reads newest first
	first, err := f.s.ChannelMessages(alice.Token, ch, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Messages) != PageSize || first.End != PageSize {
		t.Fatalf("first page: len=%d end=%d", len(first.Messages), first.End)
	}
	if got, last := first.Messages[0].Message, first.Messages[PageSize-1].Message; got != "msg 49" || last != "msg 0" {
		t.Fatalf("first page runs %q..%q, want msg 49..msg 0", got, last)
	}
	second, err := f.s.ChannelMessages(alice.Token, ch, PageSize)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Messages) != 1 || second.End != -1 || second.Messages[0].Message != "msg 50" {
		t.Fatalf("second page = %+v", second)
	}
	empty, err := f.s.ChannelMessages(alice.Token, ch, PageSize+1)
	if err != nil || len(empty.Messages) != 0 || empty.End != -1 {
		t.Fatalf("start == len should give an empty last page: %+v, %v", empty, err)
	}
	_, err = f.s.ChannelMessages(alice.Token, ch, PageSize+2)
	wantKind(t, err, errs.KindBadRequest)
	if err.Error() != "invalid start index" {
		t.Fatalf("out of range message = %q", err.Error())
	}
}

func TestDMLifecycle(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.people(t)

	_, err := f.s.CreateDM(alice.Token, []int{bob.AuthUserID, 40})
	wantKind(t, err, errs.KindBadRequest)
	_, err = f.s.CreateDM(alice.Token, []int{bob.AuthUserID, bob.AuthUserID})
	wantKind(t, err, errs.KindBadRequest)
	_, err = f.s.CreateDM(alice.Token, []int{alice.AuthUserID})
	wantKind(t, err, errs.KindBadRequest)

	id, err := f.s.CreateDM(carol.Token, []int{bob.AuthUserID, alice.AuthUserID})
	if err != nil || id != 1 {
		t.Fatalf("create = %d, %v", id, err)
	}
	det, err := f.s.DMDetails(alice.Token, id)
	if err != nil || det.Name != "alicesmith, bobbuilder, carolsinger" || len(det.Members) != 3 {
		t.Fatalf("details = %+v, %v", det, err)
	}
	notes, _ := f.s.Notifications(bob.Token)
	if len(notes) != 1 || notes[0].NotificationMessage != "carolsinger added you to "+det.Name {
		t.Fatalf("bob notifications = %+v", notes)
	}

	if _, err := f.s.SendDM(alice.Token, id, "hi all"); err != nil {
		t.Fatal(err)
	}
	if err := f.s.LeaveDM(bob.Token, id); err != nil {
		t.Fatal(err)
	}
	_, err = f.s.SendDM(bob.Token, id, "still here?")
	wantKind(t, err, errs.KindForbidden)
	wantKind(t, f.s.RemoveDM(alice.Token, id), errs.KindForbidden)

	before := f.st.Read().WorkspaceStats.MessagesExist
	if err := f.s.RemoveDM(carol.Token, id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	after := f.st.Read().WorkspaceStats.MessagesExist
	if after[len(after)-1].Num != before[len(before)-1].Num-1 {
		t.Fatalf("message count not reduced: %v -> %v", before, after)
	}
	if list, _ := f.s.ListDMs(alice.Token); len(list) != 0 {
		t.Fatalf("dm still listed: %+v", list)
	}

	next, err := f.s.CreateDM(alice.Token, []int{bob.AuthUserID})
	if err != nil || next != 1 {
		t.Fatalf("ids restart after the highest existing dm: %d, %v", next, err)
	}
}

func TestOwnerlessDMCannotBeRemoved(t *testing.T) {
	f := newFixture(t)
	alice, bob, _ := f.people(t)
	id, err := f.s.CreateDM(alice.Token, []int{bob.AuthUserID})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.s.LeaveDM(alice.Token, id); err != nil {
		t.Fatal(err)
	}
	wantKind(t, f.s.RemoveDM(bob.Token, id), errs.KindForbidden)
	if dm := f.st.Read().DMs[0]; dm.Owner != nil || len(dm.Members) != 1 {
		t.Fatalf("dm after owner left = %+v", dm)
	}
}
