package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"
)

// env prefix for every override
const envPrefix = "K24_"

// holds parsed command-line flag values and which were set
type Flags struct {
	Addr   string
	DB     string
	Config string
	Set    map[string]bool
}

// holds the environment overrides that were present
type EnvResult struct {
	Values  map[string]string
	EnvUsed bool
}

// holds the result of LoadEffectiveConfig
type EffectiveConfigResult struct {
	Config *Config
	Addr   string
	DBPath string
	Source string // which layers contributed, e.g. "config+env"
}

// parses command-line flags and returns them as a Flags struct
func ParseConfigFlags() Flags {
	return ParseConfigFlagsFrom(flag.CommandLine, os.Args[1:])
}

// ParseConfigFlagsFrom parses args on fs; split out so tests can use their own set.
func ParseConfigFlagsFrom(fs *flag.FlagSet, args []string) Flags {
	addrPtr := fs.String("addr", ":8080", "HTTP listen address")
	dbPtr := fs.String("db", "./.database", "database directory")
	cfgPtr := fs.String("config", "./config.yaml", "Path to config file")
	_ = fs.Parse(args)

	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	return Flags{Addr: *addrPtr, DB: *dbPtr, Config: *cfgPtr, Set: setFlags}
}

// loads config from file, returns config, found bool, and error
func ParseConfigFile(flags Flags) (*Config, bool, error) {
	cfgPath := ResolveConfigPath(flags.Config, flags.Set["config"])
	cfg, err := LoadConfigFile(cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, false, nil
		}
		return nil, false, err
	}
	return cfg, true, nil
}

var envKeys = []string{
	"ADDR", "SERVER_ADDRESS", "SERVER_PORT", "DB_PATH", "MAX_BODY_SIZE",
	"CORS_ORIGINS", "RATE_RPS", "RATE_BURST", "API_ADMIN_KEYS",
	"LOG_LEVEL",
	"STORAGE_BACKEND", "STORAGE_DSN",
	"BACKUP_ENABLED", "BACKUP_CRON", "BACKUP_KEEP",
	"HANGMAN_WORD_LIST", "HANGMAN_DICTIONARY_URL", "HANGMAN_LOOKUP_TIMEOUT", "HANGMAN_MAX_LOOKUP_ATTEMPTS",
	"MAIL_HOST", "MAIL_PORT", "MAIL_USERNAME", "MAIL_PASSWORD", "MAIL_FROM",
	"MEDIA_PUBLIC_URL", "MEDIA_MAX_PHOTO_SIZE",
	"SENSOR_MONITOR_POLL_INTERVAL", "SENSOR_MONITOR_DISK_HIGH_PCT", "SENSOR_MONITOR_DISK_LOW_PCT",
	"SENSOR_MONITOR_MEM_HIGH_PCT", "SENSOR_MONITOR_RECOVERY_WINDOW",
}

// gathers all K24_* overrides that are set
func ParseConfigEnvs() EnvResult {
	values := make(map[string]string)
	for _, k := range envKeys {
		if v := strings.TrimSpace(os.Getenv(envPrefix + k)); v != "" {
			values[k] = v
		}
	}
	return EnvResult{Values: values, EnvUsed: len(values) > 0}
}

func parseList(v string) []string {
	if v == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func splitAddr(cfg *Config, v string) {
	if h, p, err := net.SplitHostPort(v); err == nil {
		cfg.Server.Address = h
		if pi, err := strconv.Atoi(p); err == nil {
			cfg.Server.Port = pi
		}
		return
	}
	cfg.Server.Address = v
}

// applyEnv overlays env values onto cfg; malformed numbers are reported
func applyEnv(cfg *Config, envs map[string]string) error {
	var bad []string
	atoi := func(key string, dst *int) {
		if v, ok := envs[key]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				bad = append(bad, envPrefix+key)
				return
			}
			*dst = n
		}
	}
	str := func(key string, dst *string) {
		if v, ok := envs[key]; ok {
			*dst = v
		}
	}
	dur := func(key string, dst *Duration) {
		if v, ok := envs[key]; ok {
			d, err := parseDuration(v)
			if err != nil {
				bad = append(bad, envPrefix+key)
				return
			}
			*dst = d
		}
	}
	size := func(key string, dst *SizeBytes) {
		if v, ok := envs[key]; ok {
			s, err := parseSize(v)
			if err != nil {
				bad = append(bad, envPrefix+key)
				return
			}
			*dst = s
		}
	}

	if v, ok := envs["ADDR"]; ok {
		splitAddr(cfg, v)
	} else {
		str("SERVER_ADDRESS", &cfg.Server.Address)
		atoi("SERVER_PORT", &cfg.Server.Port)
	}
	str("DB_PATH", &cfg.Server.DBPath)
	size("MAX_BODY_SIZE", &cfg.Server.MaxBodySize)

	if v, ok := envs["CORS_ORIGINS"]; ok {
		cfg.Security.CORS.AllowedOrigins = parseList(v)
	}
	if v, ok := envs["RATE_RPS"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Security.RateLimit.RPS = f
		} else {
			bad = append(bad, envPrefix+"RATE_RPS")
		}
	}
	atoi("RATE_BURST", &cfg.Security.RateLimit.Burst)
	if v, ok := envs["API_ADMIN_KEYS"]; ok {
		cfg.Security.APIKeys.Admin = parseList(v)
	}

	str("LOG_LEVEL", &cfg.Logging.Level)

	if v, ok := envs["STORAGE_BACKEND"]; ok {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	str("STORAGE_DSN", &cfg.Storage.DSN)

	if v, ok := envs["BACKUP_ENABLED"]; ok {
		cfg.Backup.Enabled = parseBool(v)
	}
	str("BACKUP_CRON", &cfg.Backup.Cron)
	atoi("BACKUP_KEEP", &cfg.Backup.Keep)

	str("HANGMAN_WORD_LIST", &cfg.Hangman.WordList)
	str("HANGMAN_DICTIONARY_URL", &cfg.Hangman.DictionaryURL)
	dur("HANGMAN_LOOKUP_TIMEOUT", &cfg.Hangman.LookupTimeout)
	atoi("HANGMAN_MAX_LOOKUP_ATTEMPTS", &cfg.Hangman.MaxLookupAttempts)

	str("MAIL_HOST", &cfg.Mail.Host)
	atoi("MAIL_PORT", &cfg.Mail.Port)
	str("MAIL_USERNAME", &cfg.Mail.Username)
	str("MAIL_PASSWORD", &cfg.Mail.Password)
	str("MAIL_FROM", &cfg.Mail.From)

	str("MEDIA_PUBLIC_URL", &cfg.Media.PublicURL)
	size("MEDIA_MAX_PHOTO_SIZE", &cfg.Media.MaxPhotoSize)

	m := &cfg.Sensor.Monitor
	dur("SENSOR_MONITOR_POLL_INTERVAL", &m.PollInterval)
	atoi("SENSOR_MONITOR_DISK_HIGH_PCT", &m.DiskHighPct)
	atoi("SENSOR_MONITOR_DISK_LOW_PCT", &m.DiskLowPct)
	atoi("SENSOR_MONITOR_MEM_HIGH_PCT", &m.MemHighPct)
	dur("SENSOR_MONITOR_RECOVERY_WINDOW", &m.RecoveryWindow)

	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("invalid environment values: %s", strings.Join(bad, ", "))
	}
	return nil
}

// layers the sources: config file first, env on top, explicitly set flags last.
// if --config is set the file must exist.
func LoadEffectiveConfig(flags Flags, fileCfg *Config, fileExists bool, envRes EnvResult) (EffectiveConfigResult, error) {
	var res EffectiveConfigResult
	if flags.Set["config"] && !fileExists {
		return res, fmt.Errorf("config file %s not found", flags.Config)
	}

	cfg := &Config{}
	if fileCfg != nil {
		copied := *fileCfg
		cfg = &copied
	}
	sources := []string{}
	if fileExists {
		sources = append(sources, "config")
	}

	if envRes.EnvUsed {
		if err := applyEnv(cfg, envRes.Values); err != nil {
			return res, err
		}
		sources = append(sources, "env")
	}

	if flags.Set["addr"] {
		splitAddr(cfg, flags.Addr)
		sources = append(sources, "flags")
	}
	if flags.Set["db"] {
		cfg.Server.DBPath = flags.DB
		if !flags.Set["addr"] {
			sources = append(sources, "flags")
		}
	}
	if strings.TrimSpace(cfg.Server.DBPath) == "" {
		cfg.Server.DBPath = flags.DB
	}
	if len(sources) == 0 {
		sources = append(sources, "defaults")
	}

	cfg.ApplyDefaults()

	res.Config = cfg
	res.Addr = cfg.Addr()
	res.DBPath = cfg.Server.DBPath
	res.Source = strings.Join(sources, "+")
	return res, nil
}
