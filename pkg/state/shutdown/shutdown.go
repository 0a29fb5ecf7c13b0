package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"k24chat/pkg/state/logger"
)

// SetupSignalHandler installs handlers for SIGINT/SIGTERM and SIGPIPE and
// returns a context that is cancelled when any of them arrives.
func SetupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case s := <-sigc:
			logger.Info("signal_received", "signal", s.String(), "msg", "shutdown requested")
			cancel()
		case <-ctx.Done():
		}
	}()

	// watch for SIGPIPE and dump goroutine stacks to aid diagnostics
	sigpipe := make(chan os.Signal, 1)
	signal.Notify(sigpipe, syscall.SIGPIPE)
	go func() {
		select {
		case s := <-sigpipe:
			logger.Info("signal_received", "signal", s.String(), "msg", "SIGPIPE - dumping goroutine stacks")
			buf := make([]byte, 1<<20)
			n := runtime.Stack(buf, true)
			logger.Info("goroutine_stack_dump", "dump", string(buf[:n]))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// Abort logs a fatal startup or runtime error, leaves a crash note under the
// db state dir when possible, and exits the process.
func Abort(msg string, err error, dbPath string) {
	logger.Error("fatal", "msg", msg, "error", err)
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)

	if dbPath != "" {
		dir := filepath.Join(dbPath, "state")
		if mkErr := os.MkdirAll(dir, 0o700); mkErr == nil {
			note := fmt.Sprintf("%s\n%s: %v\n", time.Now().UTC().Format(time.RFC3339), msg, err)
			_ = os.WriteFile(filepath.Join(dir, "last_crash.txt"), []byte(note), 0o600)
		}
	}

	logger.Sync()
	os.Exit(1)
}
