package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"k24chat/pkg/hangman"
	"k24chat/pkg/models"
)

type stubPicker struct {
	word hangman.Word
	err  error
}

func (p stubPicker) Pick(context.Context) (hangman.Word, error) { return p.word, p.err }

type events struct {
	mu       sync.Mutex
	commands []string
	started  int
	finished []string
}

func (e *events) hooks() Hooks {
	return Hooks{
		BotCommand: func(name string) {
			e.mu.Lock()
			e.commands = append(e.commands, name)
			e.mu.Unlock()
		},
		GameStarted: func() {
			e.mu.Lock()
			e.started++
			e.mu.Unlock()
		},
		GameFinished: func(outcome string) {
			e.mu.Lock()
			e.finished = append(e.finished, outcome)
			e.mu.Unlock()
		},
	}
}

func TestHangmanThroughMessages(t *testing.T) {
	ev := &events{}
	f := newFixture(t, func(o *Options) {
		o.Picker = stubPicker{word: hangman.Word{Word: "letters", Definition: "written symbols"}}
		o.Hooks = ev.hooks()
	})
	alice, bob, _ := f.people(t)
	ch := f.channel(t, alice, "general", true, bob)

	f.send(t, bob, ch, "/hangman start")
	f.s.Wait()
	msgs := f.newest(t, alice, ch)
	if msgs[0].UID != models.BotUID || !strings.HasPrefix(msgs[0].Message, "\n"+hangman.StartBanner) {
		t.Fatalf("start reply = %q", msgs[0].Message)
	}

	f.send(t, alice, ch, "/hangman start")
	if msgs := f.newest(t, alice, ch); msgs[0].Message != hangman.GameAlreadyActive {
		t.Fatalf("second start = %q", msgs[0].Message)
	}

	for _, l := range []string{"l", "e", "t", "r", "s"} {
		f.send(t, bob, ch, "/guess "+l)
	}
	msgs = f.newest(t, alice, ch)
	if msgs[0].Message != hangman.EndMessage || !strings.Contains(msgs[1].Message, hangman.GameWin) {
		t.Fatalf("win not announced: %q / %q", msgs[1].Message, msgs[0].Message)
	}
	d := f.st.Read()
	if d.Games[0].Outcome != models.OutcomeWin || d.Channels[ch].ActiveGame != nil {
		t.Fatalf("game after win = %+v", d.Games[0])
	}
	ev.mu.Lock()
	defer ev.mu.Unlock()
	if ev.started != 1 || len(ev.finished) != 1 || ev.finished[0] != "win" {
		t.Fatalf("hooks saw started=%d finished=%v", ev.started, ev.finished)
	}
}

func TestHangmanWithoutWords(t *testing.T) {
	f := newFixture(t, func(o *Options) {
		o.Picker = stubPicker{err: errors.New("dictionary down")}
	})
	alice, _, _ := f.people(t)
	dm, _ := f.s.CreateDM(alice.Token, nil)
	if _, err := f.s.SendDM(alice.Token, dm, "/hangman start"); err != nil {
		t.Fatal(err)
	}
	f.s.Wait()
	page, _ := f.s.DMMessages(alice.Token, dm, 0)
	if len(page.Messages) != 2 || page.Messages[0].UID != models.BotUID || !strings.Contains(page.Messages[0].Message, "/hangman start") {
		t.Fatalf("dm page = %+v", page.Messages)
	}
	if len(f.st.Read().Games) != 0 {
		t.Fatalf("game created without a word")
	}
}

func TestBotCommandsActThroughTheService(t *testing.T) {
	ev := &events{}
	f := newFixture(t, func(o *Options) { o.Hooks = ev.hooks() })
	alice, bob, carol := f.people(t)
	ch := f.channel(t, alice, "general", true, bob)

	f.send(t, bob, ch, "/invite @carolsinger")
	msgs := f.newest(t, alice, ch)
	if msgs[0].Message != "Hello @carolsinger! 👋 Welcome to general!" {
		t.Fatalf("invite reply = %q", msgs[0].Message)
	}
	// the command runs before the tag scan, so carol is a member by then
	notes, _ := f.s.Notifications(carol.Token)
	if len(notes) != 2 ||
		notes[0].NotificationMessage != "bobbuilder tagged you in general: /invite @carolsinger" ||
		notes[1].NotificationMessage != "bobbuilder added you to general" {
		t.Fatalf("carol notifications = %+v", notes)
	}

	f.send(t, alice, ch, "/owneradd @bobbuilder")
	if det, _ := f.s.ChannelDetails(alice.Token, ch); len(det.OwnerMembers) != 2 {
		t.Fatalf("owneradd via bot failed: %+v", det.OwnerMembers)
	}
	f.send(t, carol, ch, "/perms @bobbuilder 1")
	if msgs := f.newest(t, alice, ch); msgs[0].UID != models.BotUID || msgs[0].Message == "@bobbuilder has been given permission 1!" {
		t.Fatalf("member changed permissions: %q", msgs[0].Message)
	}
	f.send(t, alice, ch, "/perms @bobbuilder 1")
	if f.st.Read().Users[bob.AuthUserID].Permission != models.PermOwner {
		t.Fatalf("perms via bot failed")
	}

	// a bot reply counts as a workspace message but not as the sender's
	u, _ := f.s.UserStats(carol.Token)
	if n := u.MessagesSent[len(u.MessagesSent)-1].NumMessagesSent; n != 1 {
		t.Fatalf("carol messagesSent = %d", n)
	}
	ev.mu.Lock()
	defer ev.mu.Unlock()
	if strings.Join(ev.commands, ",") != "invite,owneradd,perms,perms" {
		t.Fatalf("commands = %v", ev.commands)
	}
}
