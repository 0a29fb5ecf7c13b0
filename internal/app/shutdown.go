package app

import (
	"context"
	"errors"
	"fmt"

	"k24chat/pkg/state/logger"
)

// Shutdown stops the http server, cancels timers and background jobs, and
// closes the store. It gives up on the server when ctx expires.
func (a *App) Shutdown(ctx context.Context) error {
	a.state = "shutting_down"
	var errs []error

	if a.srvFast != nil {
		done := make(chan error, 1)
		go func() { done <- a.srvFast.Shutdown() }()
		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("http shutdown: %w", err))
			}
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("http shutdown: %w", ctx.Err()))
		}
	}
	if a.gateway != nil {
		a.gateway.Shutdown()
	}
	if a.backupCancel != nil {
		a.backupCancel()
	}
	if a.hwSensor != nil {
		a.hwSensor.Stop()
	}
	a.chat.Close()
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}

	err := errors.Join(errs...)
	if err == nil {
		a.state = "stopped"
		logger.Info("app_stopped")
	} else {
		logger.Error("app_shutdown_failed", "error", err)
	}
	return err
}
