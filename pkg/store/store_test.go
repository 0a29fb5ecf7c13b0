package store

import (
	"errors"
	"testing"

	"k24chat/pkg/errs"
	"k24chat/pkg/models"
)

func addUser(handle string) func(d *models.Data) error {
	return func(d *models.Data) error {
		d.Users = append(d.Users, models.User{UID: len(d.Users), Handle: handle})
		return nil
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(NewFilePersister(dir))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Update(addUser("alice")); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reopened, err := Open(NewFilePersister(dir))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	d := reopened.Read()
	if len(d.Users) != 1 || d.Users[0].Handle != "alice" {
		t.Fatalf("snapshot not reloaded: %+v", d.Users)
	}
	if len(d.Bots) != 1 || d.Bots[0].UID != models.BotUID {
		t.Fatalf("bot identity missing after reload")
	}
}

func TestUpdateFailureLeavesStoreUnchanged(t *testing.T) {
	s, err := Open(NewFilePersister(t.TempDir()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Update(addUser("alice")); err != nil {
		t.Fatalf("Update: %v", err)
	}
	before, _, _ := s.Stats()

	err = s.Update(func(d *models.Data) error {
		d.Users[0].Handle = "mallory"
		d.Users = append(d.Users, models.User{UID: 1})
		return errs.BadRequest("nope")
	})
	if !errs.IsBadRequest(err) {
		t.Fatalf("expected bad request, got %v", err)
	}
	d := s.Read()
	if len(d.Users) != 1 || d.Users[0].Handle != "alice" {
		t.Fatalf("failed update leaked: %+v", d.Users)
	}
	after, _, _ := s.Stats()
	if after != before {
		t.Fatalf("failed update was persisted")
	}
}

func TestReadReturnsCopy(t *testing.T) {
	s, err := Open(NewFilePersister(t.TempDir()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = s.Update(addUser("alice"))
	d := s.Read()
	d.Users[0].Handle = "changed"
	if s.Read().Users[0].Handle != "alice" {
		t.Fatalf("Read must not expose live state")
	}
}

func TestClearResets(t *testing.T) {
	s, err := Open(NewFilePersister(t.TempDir()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = s.Update(addUser("alice"))
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n := len(s.Read().Users); n != 0 {
		t.Fatalf("expected no users after clear, got %d", n)
	}
}

type failingPersister struct{ FilePersister }

func (failingPersister) Save([]byte) error { return errors.New("disk full") }

func TestSaveFailureKeepsPreviousState(t *testing.T) {
	s, err := Open(&failingPersister{*NewFilePersister(t.TempDir())})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Update(addUser("alice")); err == nil {
		t.Fatalf("expected persist error")
	}
	if n := len(s.Read().Users); n != 0 {
		t.Fatalf("unpersisted update became visible")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := OpenPersister("sqlite", dir, "")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s, err := Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = s.Update(addUser("alice"))
	_ = s.Update(addUser("bob"))
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	p2, err := OpenPersister("sqlite", dir, "")
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer p2.Close()
	s2, err := Open(p2)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if n := len(s2.Read().Users); n != 2 {
		t.Fatalf("expected 2 users, got %d", n)
	}
}

func TestPebbleStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := OpenPersister("pebble", dir, "")
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	s, err := Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = s.Update(addUser("alice"))
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ro, err := OpenReadOnly("pebble", dir, "")
	if err != nil {
		t.Fatalf("open read-only: %v", err)
	}
	defer ro.Close()
	raw, err := ro.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d, err := models.Unmarshal(raw)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(d.Users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(d.Users))
	}
}
