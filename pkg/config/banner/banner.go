package banner

import (
	"fmt"

	"k24chat/pkg/config"
)

const banner = `
 _  __    ____  _  _          _           _
| |/ /   |___ \| || |    ___ | |__   __ _| |_
| ' /_____ __) | || |_  / __|| '_ \ / _' | __|
| . \_____/ __/|__   _|| (__ | | | | (_| | |_
|_|\_\   |_____|  |_|   \___||_| |_|\__,_|\__|
`

// PrintWithEff prints the banner and a short readiness checklist.
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	addr := eff.Addr
	if addr == "" && eff.Config != nil {
		addr = eff.Config.Addr()
	}
	src := eff.Source
	if src == "" {
		src = "defaults"
	}

	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", eff.DBPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Printf("Config:   %s\n", src)
	if eff.Config == nil {
		return
	}
	cfg := eff.Config
	fmt.Printf("Storage:  %s\n", cfg.Storage.Backend)
	fmt.Printf("Body max: %s\n", cfg.Server.MaxBodySize)

	fmt.Println("\n== Production? =================================================")
	if n := len(cfg.Security.APIKeys.Admin); n > 0 {
		fmt.Printf("- Admin API keys: OK (%d)\n", n)
	} else {
		fmt.Println("- Admin API keys: MISSING (admin debug and job routes disabled)")
	}
	if cfg.Mail.Host != "" {
		fmt.Printf("- Mail: %s:%d\n", cfg.Mail.Host, cfg.Mail.Port)
	} else {
		fmt.Println("- Mail: not configured (reset codes are logged)")
	}
	if cfg.Backup.Enabled {
		fmt.Printf("- Backups: %s (keep %d)\n", cfg.Backup.Cron, cfg.Backup.Keep)
	} else {
		fmt.Println("- Backups: disabled")
	}
	fmt.Println("===============================================================")
}
