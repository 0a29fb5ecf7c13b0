// Package routes holds the HTTP handlers. Each one decodes its parameters,
// calls the chat service with the caller's token and writes the result.
package routes

import (
	"context"

	"k24chat/pkg/chat"
)

// BackupRunner takes an on-demand snapshot copy.
type BackupRunner interface {
	RunNow(ctx context.Context) (string, error)
}

type Handlers struct {
	Chat     *chat.Service
	MediaDir string
	Backup   BackupRunner
	// Ctx bounds outbound calls made on behalf of a request.
	Ctx context.Context
}

func New(svc *chat.Service, mediaDir string, backup BackupRunner) *Handlers {
	return &Handlers{Chat: svc, MediaDir: mediaDir, Backup: backup, Ctx: context.Background()}
}
