package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var Log *slog.Logger
var Audit *slog.Logger

var auditFile *os.File

// Init sets up the console logger and, when dbPath is given, the json audit sink
// under state/logs.
func Init(level string, dbPath string) {
	Log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(level)}))

	if strings.TrimSpace(dbPath) != "" {
		attachAuditLogger(filepath.Join(dbPath, "state", "logs"))
	}
}

// ParseLevel maps a config level name onto slog, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func attachAuditLogger(logsDir string) {
	if err := os.MkdirAll(logsDir, 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create audit log dir: %v\n", err)
		return
	}
	fname := filepath.Join(logsDir, "audit.log")
	if fi, err := os.Stat(fname); err == nil {
		const maxSize = 10 * 1024 * 1024
		if fi.Size() > maxSize {
			bak := fname + "." + fi.ModTime().UTC().Format("20060102T150405Z")
			_ = os.Rename(fname, bak)
		}
	}
	f, err := os.OpenFile(fname, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open audit log file: %v\n", err)
		return
	}
	auditFile = f
	Audit = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	Audit.Info("audit_sink_attached", "path", fname)
}

// Sync flushes and closes the audit sink.
func Sync() {
	if auditFile != nil {
		_ = auditFile.Sync()
		_ = auditFile.Close()
		auditFile = nil
		Audit = nil
	}
}

func Debug(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	if Log == nil {
		return
	}
	Log.Error(msg, args...)
}

// AuditEvent records an administrative action on the audit sink, if attached.
func AuditEvent(action string, args ...any) {
	if Audit == nil {
		return
	}
	Audit.Info(action, args...)
}

// LogConfigSummary prints a block of config facts as one log line.
func LogConfigSummary(event string, items []string) {
	Info(event, "summary", strings.Join(items, "; "))
}
