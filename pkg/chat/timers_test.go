package chat

import (
	"testing"
	"time"

	"k24chat/pkg/errs"
	"k24chat/pkg/models"
	"k24chat/pkg/store"
)

func TestSendLaterIsHiddenUntilDelivered(t *testing.T) {
	f := newFixture(t)
	alice, bob, _ := f.people(t)
	ch := f.channel(t, alice, "general", true)
	now := f.clock.Now().Unix()

	_, err := f.s.SendLater(alice.Token, ch, "too late", now-1)
	wantKind(t, err, errs.KindBadRequest)
	_, err = f.s.SendLater(bob.Token, ch, "not a member", now+60)
	wantKind(t, err, errs.KindForbidden)

	mid, err := f.s.SendLater(alice.Token, ch, "ping @alicesmith", now+60)
	if err != nil {
		t.Fatalf("sendlater: %v", err)
	}
	if msgs := f.newest(t, alice, ch); len(msgs) != 0 {
		t.Fatalf("pending message visible early: %+v", msgs)
	}
	later := f.send(t, alice, ch, "sent meanwhile")
	if later <= mid {
		t.Fatalf("scheduled id %d must be reserved before %d", mid, later)
	}

	f.clock.Advance(time.Minute)
	f.s.deliver(mid)
	msgs := f.newest(t, alice, ch)
	if len(msgs) != 2 || msgs[0].MessageID != mid || msgs[0].TimeSent != now+60 {
		t.Fatalf("after delivery = %+v", msgs)
	}
	if notes, _ := f.s.Notifications(alice.Token); len(notes) != 1 {
		t.Fatalf("tags should fire on delivery: %+v", notes)
	}
	if len(f.st.Read().Pending) != 0 {
		t.Fatalf("delivered message still pending")
	}
	// a second firing is a no-op
	f.s.deliver(mid)
	if msgs := f.newest(t, alice, ch); len(msgs) != 2 {
		t.Fatalf("duplicate delivery: %d messages", len(msgs))
	}
}

func TestSendLaterDroppedWhenAuthorLeft(t *testing.T) {
	f := newFixture(t)
	alice, bob, _ := f.people(t)
	ch := f.channel(t, alice, "general", true, bob)
	mid, err := f.s.SendLater(bob.Token, ch, "bye", f.clock.Now().Unix()+10)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.s.LeaveChannel(bob.Token, ch); err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(10 * time.Second)
	f.s.deliver(mid)
	for _, m := range f.newest(t, alice, ch) {
		if m.MessageID == mid {
			t.Fatalf("message from a departed member was delivered")
		}
	}
}

func TestRemovingDMCancelsScheduledSends(t *testing.T) {
	f := newFixture(t)
	alice, bob, _ := f.people(t)
	dm, _ := f.s.CreateDM(alice.Token, []int{bob.AuthUserID})
	now := f.clock.Now().Unix()

	_, err := f.s.SendLaterDM(bob.Token, dm, "soon", now-5)
	wantKind(t, err, errs.KindBadRequest)
	if _, err := f.s.SendLaterDM(bob.Token, dm, "soon", now+30); err != nil {
		t.Fatal(err)
	}
	if f.s.PendingTimers() != 1 {
		t.Fatalf("timer not armed")
	}
	if err := f.s.RemoveDM(alice.Token, dm); err != nil {
		t.Fatal(err)
	}
	if f.s.PendingTimers() != 0 || len(f.st.Read().Pending) != 0 {
		t.Fatalf("pending send survived dm removal")
	}
}

func TestPendingSendsAreRearmedOnStart(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(store.NewFilePersister(dir))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	err = st.Update(func(d *models.Data) error {
		d.Channels = append(d.Channels, models.Channel{ChannelID: 0, Name: "general", Messages: []models.Message{}})
		d.Pending = append(d.Pending, models.PendingMessage{
			Target:  models.ChannelTarget(0),
			Message: models.Message{MessageID: d.NextMessageID(), TimeSent: time.Now().Add(time.Hour).Unix()},
		})
		d.Channels[0].Standup = &models.Standup{TimeFinish: time.Now().Add(time.Hour).Unix()}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	s := New(st, Options{})
	defer s.Close()
	s.Start()
	if s.PendingTimers() != 2 {
		t.Fatalf("rearmed %d timers, want 2", s.PendingTimers())
	}
}

func TestStandup(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.people(t)
	ch := f.channel(t, alice, "general", true, bob)

	st, err := f.s.StandupActive(alice.Token, ch)
	if err != nil || st.IsActive || st.TimeFinish != nil {
		t.Fatalf("inactive standup = %+v, %v", st, err)
	}
	wantKind(t, f.s.SendStandup(alice.Token, ch, "early"), errs.KindBadRequest)
	_, err = f.s.StartStandup(alice.Token, ch, -1)
	wantKind(t, err, errs.KindBadRequest)
	_, err = f.s.StartStandup(carol.Token, ch, 60)
	wantKind(t, err, errs.KindForbidden)

	finish, err := f.s.StartStandup(alice.Token, ch, 60)
	if err != nil || finish != f.clock.Now().Unix()+60 {
		t.Fatalf("start = %d, %v", finish, err)
	}
	_, err = f.s.StartStandup(bob.Token, ch, 60)
	wantKind(t, err, errs.KindBadRequest)

	if err := f.s.SendStandup(alice.Token, ch, "did the thing"); err != nil {
		t.Fatal(err)
	}
	if err := f.s.SendStandup(bob.Token, ch, "reviewed it"); err != nil {
		t.Fatal(err)
	}
	wantKind(t, f.s.SendStandup(carol.Token, ch, "outsider"), errs.KindForbidden)
	wantKind(t, f.s.LeaveChannel(alice.Token, ch), errs.KindBadRequest)

	st, _ = f.s.StandupActive(bob.Token, ch)
	if !st.IsActive || st.TimeFinish == nil || *st.TimeFinish != finish {
		t.Fatalf("active standup = %+v", st)
	}

	f.clock.Advance(time.Minute)
	f.s.finishStandup(ch)
	msgs := f.newest(t, alice, ch)
	if len(msgs) == 0 || msgs[0].UID != alice.AuthUserID || msgs[0].Message != "alicesmith: did the thing\nbobbuilder: reviewed it" || msgs[0].TimeSent != finish {
		t.Fatalf("standup summary = %+v", msgs)
	}
	if st, _ := f.s.StandupActive(alice.Token, ch); st.IsActive {
		t.Fatalf("standup still active")
	}
}

func TestEmptyStandupPostsNothing(t *testing.T) {
	f := newFixture(t)
	alice, _, _ := f.people(t)
	ch := f.channel(t, alice, "general", true)
	if _, err := f.s.StartStandup(alice.Token, ch, 5); err != nil {
		t.Fatal(err)
	}
	f.s.finishStandup(ch)
	if msgs := f.newest(t, alice, ch); len(msgs) != 0 {
		t.Fatalf("empty standup posted %+v", msgs)
	}
}
