package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ensure canonical runtime folder layout exists under db path, not symlink, restrictive perms, writable
func EnsureStateDirs(dbPath string) error {
	p := PathsFor(dbPath)
	paths := []string{p.Store, p.Media, p.Backups, p.Logs, p.Tmp}

	for _, path := range paths {
		// ensure parent exists
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("cannot create parent for %s: %w", path, err)
		}

		// must be directory and not symlink if exists
		if fi, err := os.Lstat(path); err == nil {
			if fi.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("path is a symlink: %s", path)
			}
			if !fi.IsDir() {
				return fmt.Errorf("path exists and is not a directory: %s", path)
			}
		}

		if err := os.MkdirAll(path, 0o700); err != nil {
			return fmt.Errorf("cannot create path %s: %w", path, err)
		}

		// check writable by creating and deleting temp file
		tmp, err := os.CreateTemp(path, ".validate-*")
		if err != nil {
			return fmt.Errorf("path not writable: %s: %w", path, err)
		}
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	return nil
}

var (
	PathsVar Paths
	initOnce sync.Once
	initErr  error
)

// safe to call multiple times; initialization happens once
func Init(dbPath string) error {
	initOnce.Do(func() {
		path := strings.TrimSpace(dbPath)
		if path == "" {
			path = "./database"
		}
		path = filepath.Clean(path)
		PathsVar = PathsFor(path)
		initErr = EnsureStateDirs(path)
	})
	return initErr
}
