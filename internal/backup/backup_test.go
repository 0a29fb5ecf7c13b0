package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type staticSnapshot []byte

func (s staticSnapshot) Snapshot() []byte { return s }

func TestRunNowKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	m := New(Config{Dir: dir, Cron: "0 3 * * *", Keep: 2}, staticSnapshot(`{"users":[]}`))
	clock := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	var paths []string
	for i := 0; i < 3; i++ {
		p, err := m.RunNow(context.Background())
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		paths = append(paths, p)
		clock = clock.Add(time.Hour)
	}
	names, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || filepath.Join(dir, names[0]) != paths[1] || filepath.Join(dir, names[1]) != paths[2] {
		t.Fatalf("kept %v, want the last two of %v", names, paths)
	}
	b, err := os.ReadFile(paths[2])
	if err != nil || string(b) != `{"users":[]}` {
		t.Fatalf("backup content = %q, %v", b, err)
	}
}

func TestRunNowNeedsSnapshot(t *testing.T) {
	m := New(Config{Dir: t.TempDir(), Cron: "* * * * *", Keep: 1}, staticSnapshot(nil))
	if _, err := m.RunNow(context.Background()); err == nil {
		t.Fatalf("empty snapshot backed up")
	}
}

func TestStartRejectsBadCron(t *testing.T) {
	m := New(Config{Dir: t.TempDir(), Cron: "every day", Keep: 1}, staticSnapshot("x"))
	if _, err := m.Start(context.Background()); err == nil {
		t.Fatalf("bad cron accepted")
	}
	m = New(Config{Dir: t.TempDir(), Cron: "0 3 * * *", Keep: 1}, staticSnapshot("x"))
	cancel, err := m.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	cancel()
}
