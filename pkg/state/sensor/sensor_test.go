package sensor

import (
	"testing"
	"time"
)

func TestDiskAlertHysteresis(t *testing.T) {
	s := NewSensor(MonitorConfig{DiskHighPct: 80, DiskLowPct: 60, RecoveryWindow: time.Second})
	start := time.Unix(1000, 0)

	s.observeDisk(85, start)
	if !s.diskAlert {
		t.Fatalf("expected alert above high watermark")
	}

	// between watermarks keeps the alert
	s.observeDisk(70, start.Add(2*time.Second))
	if !s.diskAlert {
		t.Fatalf("alert cleared between watermarks")
	}

	// below low watermark but inside recovery window
	s.observeDisk(50, start.Add(500*time.Millisecond))
	if !s.diskAlert {
		t.Fatalf("alert cleared before recovery window elapsed")
	}

	s.observeDisk(50, start.Add(2*time.Second))
	if s.diskAlert {
		t.Fatalf("expected alert to clear after recovery window")
	}
}

func TestCheckHardwareUsesStatfs(t *testing.T) {
	s := NewSensor(MonitorConfig{Path: "/data", DiskHighPct: 90, DiskLowPct: 50})
	var gotPath string
	s.statfs = func(path string) (float64, error) {
		gotPath = path
		return 95, nil
	}
	s.checkHardware()
	if gotPath != "/data" {
		t.Fatalf("statfs called with %q", gotPath)
	}
	if !s.DiskAlert() {
		t.Fatalf("expected disk alert")
	}
}
