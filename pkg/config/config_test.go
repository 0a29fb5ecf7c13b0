package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFileParsesHumanValues(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cfg.yaml")
	content := []byte("server:\n  address: 127.0.0.1\n  port: 9090\n  max_body_size: 2MiB\n" +
		"storage:\n  backend: pebble\n" +
		"hangman:\n  lookup_timeout: 1500ms\n" +
		"sensor:\n  monitor:\n    poll_interval: 2\n")
	if err := os.WriteFile(p, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := LoadConfigFile(p)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if c.Addr() != "127.0.0.1:9090" {
		t.Fatalf("unexpected addr %s", c.Addr())
	}
	if c.Server.MaxBodySize.Int64() != 2*1024*1024 {
		t.Fatalf("max_body_size = %d", c.Server.MaxBodySize.Int64())
	}
	if c.Hangman.LookupTimeout.Duration() != 1500*time.Millisecond {
		t.Fatalf("lookup_timeout = %s", c.Hangman.LookupTimeout.Duration())
	}
	if c.Sensor.Monitor.PollInterval.Duration() != 2*time.Second {
		t.Fatalf("numeric seconds not honoured: %s", c.Sensor.Monitor.PollInterval.Duration())
	}
}

func TestResolveConfigPathPrefersFlag(t *testing.T) {
	t.Setenv("K24_CONFIG", "/from/env.yaml")
	if got := ResolveConfigPath("/from/flag.yaml", true); got != "/from/flag.yaml" {
		t.Fatalf("flag should win, got %s", got)
	}
	if got := ResolveConfigPath("/default.yaml", false); got != "/from/env.yaml" {
		t.Fatalf("env should win over default, got %s", got)
	}
}

func TestEffectiveConfigLayering(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := ParseConfigFlagsFrom(fs, []string{"-db", "/tmp/k24db"})

	file := &Config{}
	file.Server.Port = 7000
	file.Storage.Backend = "sqlite"

	t.Setenv("K24_SERVER_PORT", "7100")
	t.Setenv("K24_LOG_LEVEL", "debug")
	envRes := ParseConfigEnvs()

	eff, err := LoadEffectiveConfig(flags, file, true, envRes)
	if err != nil {
		t.Fatalf("LoadEffectiveConfig: %v", err)
	}
	if eff.Config.Server.Port != 7100 {
		t.Fatalf("env should override file port, got %d", eff.Config.Server.Port)
	}
	if eff.DBPath != "/tmp/k24db" {
		t.Fatalf("flag db path not applied: %s", eff.DBPath)
	}
	if eff.Config.Storage.Backend != "sqlite" {
		t.Fatalf("file backend lost: %s", eff.Config.Storage.Backend)
	}
	if eff.Config.Logging.Level != "debug" {
		t.Fatalf("env log level lost")
	}
	if eff.Source != "config+env+flags" {
		t.Fatalf("unexpected source %q", eff.Source)
	}
	if err := ValidateConfig(eff); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestEffectiveConfigRejectsBadEnv(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := ParseConfigFlagsFrom(fs, nil)
	t.Setenv("K24_RATE_BURST", "lots")
	if _, err := LoadEffectiveConfig(flags, &Config{}, false, ParseConfigEnvs()); err == nil {
		t.Fatalf("expected malformed K24_RATE_BURST to fail")
	}
}

func TestValidateConfig(t *testing.T) {
	base := func() EffectiveConfigResult {
		c := &Config{}
		c.ApplyDefaults()
		return EffectiveConfigResult{Config: c, DBPath: "/tmp/db"}
	}

	eff := base()
	eff.Config.Storage.Backend = "mongo"
	if err := ValidateConfig(eff); err == nil {
		t.Fatalf("unknown backend accepted")
	}

	eff = base()
	eff.Config.Storage.Backend = "postgres"
	if err := ValidateConfig(eff); err == nil {
		t.Fatalf("postgres without dsn accepted")
	}

	eff = base()
	eff.Config.Backup.Enabled = true
	eff.Config.Backup.Cron = "every tuesday"
	if err := ValidateConfig(eff); err == nil {
		t.Fatalf("invalid cron accepted")
	}

	eff = base()
	eff.DBPath = ""
	if err := ValidateConfig(eff); err == nil {
		t.Fatalf("empty db path accepted")
	}

	if err := ValidateConfig(base()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
