package store

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
)

// SnapshotKey holds the workspace document in the pebble backend.
const SnapshotKey = "snapshot:data"

// PebblePersister keeps the snapshot as a single synced pebble value.
type PebblePersister struct {
	db *pebble.DB
}

func OpenPebble(dir string, readOnly bool) (*PebblePersister, error) {
	db, err := pebble.Open(dir, &pebble.Options{ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s: %w", dir, err)
	}
	return &PebblePersister{db: db}, nil
}

func (p *PebblePersister) Name() string { return "pebble" }

func (p *PebblePersister) Load() ([]byte, error) {
	v, closer, err := p.db.Get([]byte(SnapshotKey))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}

func (p *PebblePersister) Save(snapshot []byte) error {
	return p.db.Set([]byte(SnapshotKey), snapshot, pebble.Sync)
}

func (p *PebblePersister) Close() error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
