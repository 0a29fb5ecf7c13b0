package store

import (
	"fmt"
	"path/filepath"
)

// OpenPersister builds the backend named by backend under storeDir.
func OpenPersister(backend, storeDir, dsn string) (Persister, error) {
	switch backend {
	case "", "file":
		return NewFilePersister(storeDir), nil
	case "pebble":
		return OpenPebble(filepath.Join(storeDir, "pebble"), false)
	case "sqlite":
		return OpenSQLite(filepath.Join(storeDir, "k24chat.sqlite"))
	case "postgres":
		return OpenPostgres(dsn)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// OpenReadOnly opens an existing backend for offline inspection.
func OpenReadOnly(backend, storeDir, dsn string) (Persister, error) {
	if backend == "pebble" {
		return OpenPebble(filepath.Join(storeDir, "pebble"), true)
	}
	return OpenPersister(backend, storeDir, dsn)
}
