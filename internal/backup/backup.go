package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"github.com/dustin/go-humanize"

	"k24chat/pkg/state/logger"
)

const filePrefix = "snapshot-"

// Snapshotter supplies the committed workspace snapshot.
type Snapshotter interface {
	Snapshot() []byte
}

type Config struct {
	Dir  string
	Cron string
	Keep int
}

// Manager copies the workspace snapshot into the backups directory on a
// cron schedule and on demand.
type Manager struct {
	cfg     Config
	src     Snapshotter
	now     func() time.Time
	mu      sync.Mutex
	running bool
}

func New(cfg Config, src Snapshotter) *Manager {
	if cfg.Keep <= 0 {
		cfg.Keep = 1
	}
	return &Manager{cfg: cfg, src: src, now: time.Now}
}

// Start runs the schedule loop until the returned cancel func or ctx ends it.
func (m *Manager) Start(ctx context.Context) (context.CancelFunc, error) {
	if !gronx.New().IsValid(m.cfg.Cron) {
		return nil, fmt.Errorf("invalid backup cron %q", m.cfg.Cron)
	}
	ctx2, cancel := context.WithCancel(ctx)
	logger.Info("backup_enabled", "cron", m.cfg.Cron, "keep", m.cfg.Keep, "dir", m.cfg.Dir)
	go m.scheduleLoop(ctx2)
	return cancel, nil
}

func (m *Manager) scheduleLoop(ctx context.Context) {
	for {
		next, err := gronx.NextTickAfter(m.cfg.Cron, m.now(), false)
		if err != nil {
			logger.Error("backup_nexttick_failed", "cron", m.cfg.Cron, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		wait := time.Until(next)
		if wait < 0 {
			wait = 0
		}
		select {
		case <-time.After(wait):
			m.runJob()
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) runJob() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	if _, err := m.RunNow(context.Background()); err != nil {
		logger.Error("backup_run_error", "error", err)
	}
}

// RunNow writes one backup and prunes old ones. It returns the new file.
func (m *Manager) RunNow(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	snap := m.src.Snapshot()
	if len(snap) == 0 {
		return "", fmt.Errorf("no snapshot committed yet")
	}
	if err := os.MkdirAll(m.cfg.Dir, 0o700); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	name := filePrefix + m.now().UTC().Format("20060102T150405.000000000") + ".json"
	path := filepath.Join(m.cfg.Dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, snap, 0o600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("rename backup: %w", err)
	}
	pruned, err := m.prune()
	if err != nil {
		logger.Warn("backup_prune_failed", "error", err)
	}
	logger.Info("backup_written", "path", path, "size", humanize.Bytes(uint64(len(snap))), "pruned", pruned)
	return path, nil
}

// List returns existing backups, oldest first.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, filePrefix) && strings.HasSuffix(n, ".json") {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *Manager) prune() (int, error) {
	names, err := m.List()
	if err != nil {
		return 0, err
	}
	removed := 0
	for len(names)-removed > m.cfg.Keep {
		if err := os.Remove(filepath.Join(m.cfg.Dir, names[removed])); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
