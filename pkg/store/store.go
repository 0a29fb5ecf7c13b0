package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"k24chat/pkg/models"
	"k24chat/pkg/state/logger"

	"github.com/dustin/go-humanize"
)

// ErrNoSnapshot is returned by a Persister that has never been written.
var ErrNoSnapshot = errors.New("store: no snapshot")

// Persister durably keeps the latest serialized workspace.
type Persister interface {
	Load() ([]byte, error)
	Save(snapshot []byte) error
	Close() error
	Name() string
}

// Store owns the workspace. Every access goes through one lock; mutations are
// applied to a working copy and only committed, then persisted, on success.
type Store struct {
	mu       sync.Mutex
	data     *models.Data
	snapshot []byte
	p        Persister
	now      func() time.Time
	ready    bool

	saves     uint64
	lastSaved time.Time
}

// Open loads the persisted snapshot, or starts an empty workspace when there is none.
func Open(p Persister) (*Store, error) {
	s := &Store{p: p, now: time.Now}
	raw, err := p.Load()
	switch {
	case errors.Is(err, ErrNoSnapshot):
		s.data = models.NewData(s.now().Unix())
		b, err := s.data.Marshal()
		if err != nil {
			return nil, err
		}
		s.snapshot = b
		logger.Info("store_initialized_empty", "backend", p.Name())
	case err != nil:
		return nil, fmt.Errorf("load snapshot from %s: %w", p.Name(), err)
	default:
		d, err := models.Unmarshal(raw)
		if err != nil {
			return nil, err
		}
		s.data = d
		s.snapshot = raw
		c := d.Counts()
		logger.Info("store_snapshot_loaded", "backend", p.Name(), "size", humanize.Bytes(uint64(len(raw))),
			"users", c.Users, "channels", c.Channels, "dms", c.DMs, "messages", c.Messages)
	}
	s.ready = true
	return s, nil
}

// Read returns a deep copy of the current workspace.
func (s *Store) Read() *models.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := models.Unmarshal(s.snapshot)
	if err != nil {
		return s.data.Clone()
	}
	return out
}

// Replace commits d as the whole workspace and persists it.
func (s *Store) Replace(d *models.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(d)
}

// View runs fn against the live workspace under the lock. fn must not mutate.
func (s *Store) View(fn func(d *models.Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// Update runs fn against a working copy. If fn succeeds the copy becomes the
// workspace and is persisted; if it fails nothing changes.
func (s *Store) Update(fn func(d *models.Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work, err := models.Unmarshal(s.snapshot)
	if err != nil {
		return err
	}
	if err := fn(work); err != nil {
		return err
	}
	return s.commitLocked(work)
}

// Clear resets the workspace to empty.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(models.NewData(s.now().Unix()))
}

// Snapshot returns the last committed serialized workspace.
func (s *Store) Snapshot() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.snapshot...)
}

// Ready reports whether the store loaded successfully and is open.
func (s *Store) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Stats reports persist counters for metrics.
func (s *Store) Stats() (saves uint64, snapshotBytes int, lastSaved time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves, len(s.snapshot), s.lastSaved
}

func (s *Store) Backend() string { return s.p.Name() }

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = false
	return s.p.Close()
}

func (s *Store) commitLocked(d *models.Data) error {
	b, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.p.Save(b); err != nil {
		logger.Error("snapshot_save_failed", "backend", s.p.Name(), "error", err)
		return fmt.Errorf("persist snapshot: %w", err)
	}
	s.data = d
	s.snapshot = b
	s.saves++
	s.lastSaved = s.now()
	logger.Debug("snapshot_saved", "backend", s.p.Name(), "bytes", len(b))
	return nil
}
