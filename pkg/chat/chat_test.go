package chat

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"k24chat/pkg/errs"
	"k24chat/pkg/mailer"
	"k24chat/pkg/models"
	"k24chat/pkg/store"

	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	s     *Service
	st    *store.Store
	clock *fakeClock
	mail  *mailer.LogMailer
}

func newFixture(t *testing.T, opts ...func(*Options)) *fixture {
	t.Helper()
	st, err := store.Open(store.NewFilePersister(t.TempDir()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	f := &fixture{st: st, clock: &fakeClock{t: time.Unix(1_700_000_000, 0)}, mail: mailer.NewLogMailer()}
	o := Options{
		Now:        f.clock.Now,
		BcryptCost: bcrypt.MinCost,
		Mailer:     f.mail,
		PublicURL:  "http://localhost:8080",
	}
	for _, fn := range opts {
		fn(&o)
	}
	f.s = New(st, o)
	t.Cleanup(func() {
		f.s.Close()
		_ = st.Close()
	})
	return f
}

func (f *fixture) register(t *testing.T, email, first, last string) Session {
	t.Helper()
	sess, err := f.s.Register(email, "hunter22", first, last)
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return sess
}

// people registers alice (global owner), bob and carol.
func (f *fixture) people(t *testing.T) (alice, bob, carol Session) {
	t.Helper()
	return f.register(t, "alice@example.com", "Alice", "Smith"),
		f.register(t, "bob@example.com", "Bob", "Builder"),
		f.register(t, "carol@example.com", "Carol", "Singer")
}

func (f *fixture) channel(t *testing.T, owner Session, name string, public bool, members ...Session) int {
	t.Helper()
	id, err := f.s.CreateChannel(owner.Token, name, public)
	if err != nil {
		t.Fatalf("create channel: %v", err)
	}
	for _, m := range members {
		if err := f.s.InviteToChannel(owner.Token, id, m.AuthUserID); err != nil {
			t.Fatalf("invite %d: %v", m.AuthUserID, err)
		}
	}
	return id
}

func (f *fixture) send(t *testing.T, who Session, channelID int, text string) int {
	t.Helper()
	mid, err := f.s.SendMessage(who.Token, channelID, text)
	if err != nil {
		t.Fatalf("send %q: %v", text, err)
	}
	return mid
}

// newest returns the newest messages of a channel, newest first.
func (f *fixture) newest(t *testing.T, who Session, channelID int) []models.MessageView {
	t.Helper()
	p, err := f.s.ChannelMessages(who.Token, channelID, 0)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	return p.Messages
}

func wantKind(t *testing.T, err error, kind errs.Kind) {
	t.Helper()
	if errs.KindOf(err) != kind {
		t.Fatalf("want %s, got %v", kind, err)
	}
}

func TestRegisterDerivesHandlesAndPermissions(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "a@example.com", "John", "Smith")
	b := f.register(t, "b@example.com", "John", "Smith")
	c := f.register(t, "c@example.com", "Johnathon-Alexander", "Smithsonian!")

	d := f.st.Read()
	if d.Users[a.AuthUserID].Permission != models.PermOwner || d.Users[b.AuthUserID].Permission != models.PermMember {
		t.Fatalf("first user must be the only global owner")
	}
	handles := []string{d.Users[0].Handle, d.Users[1].Handle, d.Users[2].Handle}
	want := []string{"johnsmith", "johnsmith0", "johnathonalexandersm"}
	for i := range want {
		if handles[i] != want[i] {
			t.Fatalf("handles = %v, want %v", handles, want)
		}
	}
	if c.AuthUserID != 2 || d.Users[2].ProfileImgURL != "http://localhost:8080/img/default.jpg" {
		t.Fatalf("unexpected third user %+v", d.Users[2].Profile())
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	f.register(t, "taken@example.com", "Ann", "Lee")
	cases := []struct {
		email, password, first, last string
	}{
		{"not-an-email", "hunter22", "Ann", "Lee"},
		{"taken@example.com", "hunter22", "Ann", "Lee"},
		{"new@example.com", "short", "Ann", "Lee"},
		{"new@example.com", "hunter22", "", "Lee"},
		{"new@example.com", "hunter22", "Ann", strings.Repeat("x", 51)},
	}
	for _, c := range cases {
		_, err := f.s.Register(c.email, c.password, c.first, c.last)
		wantKind(t, err, errs.KindBadRequest)
	}
	if n := len(f.st.Read().Users); n != 1 {
		t.Fatalf("failed registrations created users: %d", n)
	}
}

func TestLoginLogout(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "a@example.com", "Ann", "Lee")

	_, err := f.s.Login("a@example.com", "wrong-password")
	wantKind(t, err, errs.KindBadRequest)

	sess, err := f.s.Login("a@example.com", "hunter22")
	if err != nil || sess.AuthUserID != reg.AuthUserID || sess.Token == reg.Token {
		t.Fatalf("login = %+v, %v", sess, err)
	}
	if err := f.s.Logout(reg.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_, err = f.s.ListChannels(reg.Token)
	wantKind(t, err, errs.KindForbidden)
	if _, err := f.s.ListChannels(sess.Token); err != nil {
		t.Fatalf("second session should survive: %v", err)
	}
	wantKind(t, f.s.Logout(reg.Token), errs.KindForbidden)
}

func TestPasswordReset(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@example.com", "Ann", "Lee")
	ctx := context.Background()

	wantKind(t, f.s.RequestPasswordReset(ctx, "nobody@example.com"), errs.KindBadRequest)
	if err := f.s.RequestPasswordReset(ctx, "a@example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	code, ok := f.mail.LastCode("a@example.com")
	if !ok {
		t.Fatalf("no code mailed")
	}
	wantKind(t, f.s.ResetPassword("bogus", "newpassword"), errs.KindBadRequest)
	wantKind(t, f.s.ResetPassword(code, "tiny"), errs.KindBadRequest)
	if err := f.s.ResetPassword(code, "newpassword"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	wantKind(t, f.s.ResetPassword(code, "newpassword"), errs.KindBadRequest)
	if _, err := f.s.Login("a@example.com", "newpassword"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestProfileUpdates(t *testing.T) {
	f := newFixture(t)
	alice, bob, _ := f.people(t)

	wantKind(t, f.s.SetHandle(alice.Token, "ab"), errs.KindBadRequest)
	wantKind(t, f.s.SetHandle(alice.Token, "has space"), errs.KindBadRequest)
	wantKind(t, f.s.SetHandle(alice.Token, "bobbuilder"), errs.KindBadRequest)
	if err := f.s.SetHandle(alice.Token, "ali_ce"); err != nil {
		t.Fatalf("sethandle: %v", err)
	}
	wantKind(t, f.s.SetEmail(alice.Token, "bob@example.com"), errs.KindBadRequest)
	if err := f.s.SetEmail(alice.Token, "alice@work.example.com"); err != nil {
		t.Fatalf("setemail: %v", err)
	}
	wantKind(t, f.s.SetName(alice.Token, "", "Smith"), errs.KindBadRequest)
	if err := f.s.SetName(alice.Token, "Alicia", "Smith"); err != nil {
		t.Fatalf("setname: %v", err)
	}

	p, err := f.s.Profile(bob.Token, alice.AuthUserID)
	if err != nil || p.Handle != "ali_ce" || p.Email != "alice@work.example.com" || p.NameFirst != "Alicia" {
		t.Fatalf("profile = %+v, %v", p, err)
	}
	botProfile, err := f.s.Profile(bob.Token, models.BotUID)
	if err != nil || botProfile.Handle != "K-24 Bot" {
		t.Fatalf("bot profile = %+v, %v", botProfile, err)
	}
	_, err = f.s.Profile(bob.Token, 99)
	wantKind(t, err, errs.KindBadRequest)
	_, err = f.s.Profile("nope", 0)
	wantKind(t, err, errs.KindForbidden)
}

func TestFailedOperationLeavesSnapshotUntouched(t *testing.T) {
	f := newFixture(t)
	alice, bob, _ := f.people(t)
	ch := f.channel(t, alice, "general", true)
	f.send(t, alice, ch, "hello")

	before := f.st.Snapshot()
	failures := []error{
		f.s.JoinChannel(bob.Token, 42),
		f.s.LeaveChannel(bob.Token, ch),
		f.s.RemoveMessage(bob.Token, 1),
		f.s.AddChannelOwner(alice.Token, ch, bob.AuthUserID),
		f.s.ChangePermission(bob.Token, alice.AuthUserID, models.PermMember),
	}
	_, err := f.s.SendMessage(bob.Token, ch, "not a member")
	failures = append(failures, err)
	_, err = f.s.CreateChannel(alice.Token, "this name is far too long", true)
	failures = append(failures, err)
	for i, err := range failures {
		if err == nil {
			t.Fatalf("operation %d unexpectedly succeeded", i)
		}
	}
	if !bytes.Equal(before, f.st.Snapshot()) {
		t.Fatalf("failed operations changed the workspace")
	}
}

func TestClearResetsWorkspaceAndTimers(t *testing.T) {
	f := newFixture(t)
	alice, _, _ := f.people(t)
	ch := f.channel(t, alice, "general", true)
	if _, err := f.s.SendLater(alice.Token, ch, "later", f.clock.Now().Unix()+3600); err != nil {
		t.Fatalf("sendlater: %v", err)
	}
	if f.s.PendingTimers() != 1 {
		t.Fatalf("timer not armed")
	}
	if err := f.s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if c := f.st.Read().Counts(); c.Users != 0 || c.Channels != 0 || c.Pending != 0 {
		t.Fatalf("clear left %+v", c)
	}
	if f.s.PendingTimers() != 0 {
		t.Fatalf("clear left timers armed")
	}
}
