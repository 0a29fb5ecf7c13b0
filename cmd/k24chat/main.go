package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"k24chat/internal/app"
	"k24chat/pkg/config"
	"k24chat/pkg/state"
	"k24chat/pkg/state/logger"
	"k24chat/pkg/state/shutdown"
)

// set build metadata
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// load .env file if present
	_ = godotenv.Load(".env")

	flags := config.ParseConfigFlags()

	fileCfg, fileExists, err := config.ParseConfigFile(flags)
	if err != nil {
		shutdown.Abort("failed to load config file", err, flags.DB)
	}

	envRes := config.ParseConfigEnvs()

	eff, err := config.LoadEffectiveConfig(flags, fileCfg, fileExists, envRes)
	if err != nil {
		shutdown.Abort("failed to build effective config", err, flags.DB)
	}

	if err := config.ValidateConfig(eff); err != nil {
		shutdown.Abort("invalid configuration", err, eff.DBPath)
	}

	// initialize logger after config is fully loaded
	logger.Init(eff.Config.Logging.Level, eff.DBPath)
	defer logger.Sync()

	logger.Info("effective_config_loaded", "source", eff.Source, "addr", eff.Addr, "db_path", eff.DBPath)
	cfg := eff.Config
	logger.LogConfigSummary("config_summary", []string{
		fmt.Sprintf("storage=%s", cfg.Storage.Backend),
		fmt.Sprintf("backup=%t cron=%q keep=%d", cfg.Backup.Enabled, cfg.Backup.Cron, cfg.Backup.Keep),
		fmt.Sprintf("rate_limit=%.1f/%d", cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst),
		fmt.Sprintf("admin_keys=%d", len(cfg.Security.APIKeys.Admin)),
		fmt.Sprintf("max_body=%s", cfg.Server.MaxBodySize),
		fmt.Sprintf("smtp=%t", cfg.Mail.Host != ""),
	})

	if err := state.Init(eff.DBPath); err != nil {
		fmt.Fprintf(os.Stderr, "state_dirs_setup_failed: %v\n", err)
		shutdown.Abort(fmt.Sprintf("failed to ensure state directories under %s", eff.DBPath), err, eff.DBPath)
	}

	a, err := app.New(eff, version, commit, buildDate)
	if err != nil {
		shutdown.Abort("failed to initialize app", err, eff.DBPath)
	}

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	if err := a.Run(ctx); err != nil {
		shutdown.Abort("app run failed", err, eff.DBPath)
	}

	// bounded so teardown cannot hang forever
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer shutdownCancel()
	_ = a.Shutdown(shutdownCtx)
}
