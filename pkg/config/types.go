package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// Config is the main configuration struct.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Security SecurityConfig `yaml:"security"`
	Logging  LoggingConfig  `yaml:"logging"`
	Storage  StorageConfig  `yaml:"storage"`
	Backup   BackupConfig   `yaml:"backup"`
	Hangman  HangmanConfig  `yaml:"hangman"`
	Mail     MailConfig     `yaml:"mail"`
	Media    MediaConfig    `yaml:"media"`
	Sensor   SensorConfig   `yaml:"sensor"`
}

// ServerConfig holds http listener settings.
type ServerConfig struct {
	Address     string    `yaml:"address"`
	Port        int       `yaml:"port"`
	DBPath      string    `yaml:"db_path"`
	MaxBodySize SizeBytes `yaml:"max_body_size"`
}

// SecurityConfig holds security related settings.
type SecurityConfig struct {
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	APIKeys struct {
		Admin []string `yaml:"admin"`
	} `yaml:"api_keys"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig selects where the workspace snapshot is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file | pebble | sqlite | postgres
	DSN     string `yaml:"dsn"`     // postgres only; others live under db_path
}

// BackupConfig controls scheduled snapshot copies.
type BackupConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
	Keep    int    `yaml:"keep"`
}

// HangmanConfig points the game at its word list and definition service.
type HangmanConfig struct {
	WordList          string   `yaml:"word_list"`
	DictionaryURL     string   `yaml:"dictionary_url"`
	LookupTimeout     Duration `yaml:"lookup_timeout"`
	MaxLookupAttempts int      `yaml:"max_lookup_attempts"` // 0 retries until a definition is found
}

// MailConfig configures password reset delivery. An empty host logs codes instead.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// MediaConfig controls where uploaded profile photos are served from.
type MediaConfig struct {
	PublicURL    string    `yaml:"public_url"`
	MaxPhotoSize SizeBytes `yaml:"max_photo_size"`
}

// SensorConfig holds sensor related tuning knobs.
type SensorConfig struct {
	Monitor struct {
		PollInterval   Duration `yaml:"poll_interval"`
		DiskHighPct    int      `yaml:"disk_high_pct"`
		DiskLowPct     int      `yaml:"disk_low_pct"`
		MemHighPct     int      `yaml:"mem_high_pct"`
		RecoveryWindow Duration `yaml:"recovery_window"`
	} `yaml:"monitor"`
}

// SizeBytes represents a number of bytes, unmarshaled from human-friendly strings like "64MB" or plain integers.
type SizeBytes int64

func (s *SizeBytes) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*s = 0
		return nil
	}
	v, err := parseSize(node.Value)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s SizeBytes) Int64() int64 { return int64(s) }

func (s SizeBytes) String() string { return humanize.IBytes(uint64(s)) }

func parseSize(raw string) (SizeBytes, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return SizeBytes(i), nil
	}
	if v, err := humanize.ParseBytes(raw); err == nil {
		return SizeBytes(v), nil
	}
	return 0, fmt.Errorf("invalid size value: %q", raw)
}

// Duration is a wrapper around time.Duration that supports YAML parsing from strings like "100ms" or plain numbers (interpreted as seconds).
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*d = Duration(0)
		return nil
	}
	v, err := parseDuration(node.Value)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }

func parseDuration(raw string) (Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if td, err := time.ParseDuration(raw); err == nil {
		return Duration(td), nil
	}
	// allow numeric seconds
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Duration(time.Duration(f * float64(time.Second))), nil
	}
	return 0, fmt.Errorf("invalid duration value: %q", raw)
}
