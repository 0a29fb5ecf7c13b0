package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotFileName is the json document written by the file backend.
const SnapshotFileName = "database.json"

// FilePersister rewrites a single json document atomically on every save.
type FilePersister struct {
	path string
}

func NewFilePersister(dir string) *FilePersister {
	return &FilePersister{path: filepath.Join(dir, SnapshotFileName)}
}

func (f *FilePersister) Name() string { return "file" }

func (f *FilePersister) Path() string { return f.path }

func (f *FilePersister) Load() ([]byte, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, ErrNoSnapshot
	}
	return b, nil
}

func (f *FilePersister) Save(snapshot []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".database-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(snapshot); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}

func (f *FilePersister) Close() error { return nil }
