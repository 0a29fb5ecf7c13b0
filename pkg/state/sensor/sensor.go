package sensor

import (
	"runtime"
	"sync"
	"time"

	"k24chat/pkg/state/logger"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sys/unix"
)

var (
	diskUsedPct = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "k24chat_disk_used_pct",
		Help: "Used space on the volume holding the database, in percent.",
	})
	memUsedPct = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "k24chat_heap_inuse_pct",
		Help: "Heap in use as a percentage of heap reserved.",
	})
)

func init() {
	prometheus.MustRegister(diskUsedPct)
	prometheus.MustRegister(memUsedPct)
}

// sensor struct
type Sensor struct {
	config        MonitorConfig
	stopCh        chan struct{}
	stopOnce      sync.Once
	mu            sync.Mutex
	diskAlert     bool
	memAlert      bool
	lastDiskAlert time.Time
	lastMemAlert  time.Time
	now           func() time.Time
	statfs        func(path string) (usedPct float64, err error)
}

// monitor config
type MonitorConfig struct {
	Path           string
	PollInterval   time.Duration
	DiskHighPct    int
	DiskLowPct     int
	MemHighPct     int
	RecoveryWindow time.Duration
}

func NewSensor(config MonitorConfig) *Sensor {
	if config.Path == "" {
		config.Path = "/"
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 500 * time.Millisecond
	}
	return &Sensor{
		config: config,
		stopCh: make(chan struct{}),
		now:    time.Now,
		statfs: diskUsage,
	}
}

func (s *Sensor) Start() {
	go s.run()
}

func (s *Sensor) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

// DiskAlert reports whether disk usage is over the high watermark.
func (s *Sensor) DiskAlert() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diskAlert
}

func (s *Sensor) MemAlert() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memAlert
}

func (s *Sensor) run() {
	s.checkHardware()
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.checkHardware()
		case <-s.stopCh:
			return
		}
	}
}

func diskUsage(path string) (float64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	available := stat.Bavail * uint64(stat.Bsize)
	total := stat.Blocks * uint64(stat.Bsize)
	if total == 0 {
		return 0, nil
	}
	return float64(total-available) / float64(total) * 100, nil
}

func (s *Sensor) checkHardware() {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	usedPct, err := s.statfs(s.config.Path)
	if err != nil {
		logger.Error("disk_stat_failed", "path", s.config.Path, "error", err)
		return
	}
	diskUsedPct.Set(usedPct)
	s.observeDisk(usedPct, now)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	heapPct := 0.0
	if m.HeapSys > 0 {
		heapPct = float64(m.HeapInuse) / float64(m.HeapSys) * 100
	}
	memUsedPct.Set(heapPct)
	s.observeMem(heapPct, now)
}

// caller holds s.mu
func (s *Sensor) observeDisk(usedPct float64, now time.Time) {
	if usedPct > float64(s.config.DiskHighPct) {
		if !s.diskAlert {
			logger.Warn("disk_usage_high", "usage_pct", usedPct, "threshold", s.config.DiskHighPct)
			s.diskAlert = true
			s.lastDiskAlert = now
		}
	} else if usedPct < float64(s.config.DiskLowPct) && s.diskAlert {
		if now.Sub(s.lastDiskAlert) >= s.config.RecoveryWindow {
			logger.Info("disk_usage_recovered", "usage_pct", usedPct, "threshold", s.config.DiskLowPct)
			s.diskAlert = false
		}
	}
}

// caller holds s.mu
func (s *Sensor) observeMem(usedPct float64, now time.Time) {
	if s.config.MemHighPct <= 0 {
		return
	}
	if usedPct > float64(s.config.MemHighPct) {
		if !s.memAlert {
			logger.Warn("memory_usage_high", "usage_pct", usedPct, "threshold", s.config.MemHighPct)
			s.memAlert = true
			s.lastMemAlert = now
		}
	} else if s.memAlert && now.Sub(s.lastMemAlert) >= s.config.RecoveryWindow {
		logger.Info("memory_usage_recovered", "usage_pct", usedPct, "threshold", s.config.MemHighPct)
		s.memAlert = false
	}
}
