package config

import (
	"fmt"
	"net/url"

	"github.com/adhocore/gronx"
)

var knownBackends = map[string]bool{"file": true, "pebble": true, "sqlite": true, "postgres": true}

// fail fast on critical errors; call after LoadEffectiveConfig
func ValidateConfig(eff EffectiveConfigResult) error {
	cfg := eff.Config
	if cfg == nil {
		return fmt.Errorf("effective config is nil")
	}
	if eff.DBPath == "" {
		return fmt.Errorf("database path is empty: set --db flag, K24_DB_PATH env, or server.db_path in config")
	}

	if !knownBackends[cfg.Storage.Backend] {
		return fmt.Errorf("unknown storage.backend %q: want file, pebble, sqlite or postgres", cfg.Storage.Backend)
	}
	if cfg.Storage.Backend == "postgres" && cfg.Storage.DSN == "" {
		return fmt.Errorf("storage.backend postgres requires storage.dsn")
	}

	if cfg.Security.RateLimit.Burst < 1 {
		return fmt.Errorf("security.rate_limit.burst must be at least 1")
	}

	if cfg.Backup.Enabled {
		if !gronx.New().IsValid(cfg.Backup.Cron) {
			return fmt.Errorf("invalid backup.cron: not a valid cron expression")
		}
	}

	if u, err := url.Parse(cfg.Hangman.DictionaryURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid hangman.dictionary_url %q", cfg.Hangman.DictionaryURL)
	}
	if cfg.Hangman.MaxLookupAttempts < 0 {
		return fmt.Errorf("hangman.max_lookup_attempts cannot be negative")
	}

	m := cfg.Sensor.Monitor
	if m.DiskLowPct > m.DiskHighPct {
		return fmt.Errorf("sensor.monitor.disk_low_pct (%d) must not exceed disk_high_pct (%d)", m.DiskLowPct, m.DiskHighPct)
	}

	if cfg.Mail.Host != "" && cfg.Mail.From == "" {
		return fmt.Errorf("mail.from is required when mail.host is set")
	}
	return nil
}
