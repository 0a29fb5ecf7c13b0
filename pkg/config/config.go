package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort        = 8080
	defaultMaxBodySize = 5 * 1024 * 1024 // 5 MiB
	defaultBackend     = "file"
	// rate limiting
	defaultRateRPS   = 50
	defaultRateBurst = 100
	// backups
	defaultBackupCron = "0 3 * * *" // daily at 03:00
	defaultBackupKeep = 7
	// hangman
	defaultWordList      = "/usr/share/dict/american-english"
	defaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en/"
	defaultLookupTimeout = 5 * time.Second
	// media
	defaultMaxPhotoSize = 10 * 1024 * 1024
	// sensor
	defaultSensorPollInterval   = 5 * time.Second
	defaultSensorDiskHighPct    = 90
	defaultSensorDiskLowPct     = 80
	defaultSensorMemHighPct     = 90
	defaultSensorRecoveryWindow = 30 * time.Second
)

// Addr returns the HTTP server address as host:port.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	port := c.Server.Port
	if port == 0 {
		port = defaultPort
	}
	return fmt.Sprintf("%s:%d", addr, port)
}

// LoadConfigFile reads and parses a config file.
func LoadConfigFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyDefaults fills every unset knob with its default.
func (c *Config) ApplyDefaults() {
	if c.Server.MaxBodySize.Int64() == 0 {
		c.Server.MaxBodySize = SizeBytes(defaultMaxBodySize)
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultBackend
	}
	if c.Security.RateLimit.RPS <= 0 {
		c.Security.RateLimit.RPS = defaultRateRPS
	}
	if c.Security.RateLimit.Burst <= 0 {
		c.Security.RateLimit.Burst = defaultRateBurst
	}
	if c.Backup.Cron == "" {
		c.Backup.Cron = defaultBackupCron
	}
	if c.Backup.Keep <= 0 {
		c.Backup.Keep = defaultBackupKeep
	}
	if c.Hangman.WordList == "" {
		c.Hangman.WordList = defaultWordList
	}
	if c.Hangman.DictionaryURL == "" {
		c.Hangman.DictionaryURL = defaultDictionaryURL
	}
	if c.Hangman.LookupTimeout.Duration() == 0 {
		c.Hangman.LookupTimeout = Duration(defaultLookupTimeout)
	}
	if c.Media.MaxPhotoSize.Int64() == 0 {
		c.Media.MaxPhotoSize = SizeBytes(defaultMaxPhotoSize)
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = 587
	}

	m := &c.Sensor.Monitor
	if m.PollInterval.Duration() == 0 {
		m.PollInterval = Duration(defaultSensorPollInterval)
	}
	if m.DiskHighPct == 0 {
		m.DiskHighPct = defaultSensorDiskHighPct
	}
	if m.DiskLowPct == 0 {
		m.DiskLowPct = defaultSensorDiskLowPct
	}
	if m.MemHighPct == 0 {
		m.MemHighPct = defaultSensorMemHighPct
	}
	if m.RecoveryWindow.Duration() == 0 {
		m.RecoveryWindow = Duration(defaultSensorRecoveryWindow)
	}
}

// ResolveConfigPath returns the config file path, preferring flag, then env.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("K24_CONFIG"); p != "" {
		return p
	}
	return flagPath
}
