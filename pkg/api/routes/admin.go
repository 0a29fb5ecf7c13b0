package routes

import (
	"k24chat/pkg/api/router"
	"k24chat/pkg/state/logger"

	"github.com/valyala/fasthttp"
)

func (h *Handlers) RemoveUser(ctx *fasthttp.RequestCtx) {
	router.Respond(ctx, nil, h.Chat.RemoveUser(router.Token(ctx), router.QueryID(ctx, "uId")))
}

func (h *Handlers) ChangePermission(ctx *fasthttp.RequestCtx) {
	in := struct {
		UID          int `json:"uId"`
		PermissionID int `json:"permissionId"`
	}{UID: router.InvalidID, PermissionID: router.InvalidID}
	if router.DecodeBodyOrFail(ctx, &in) {
		router.Respond(ctx, nil, h.Chat.ChangePermission(router.Token(ctx), in.UID, in.PermissionID))
	}
}

// RunBackup takes a snapshot copy now. Guarded by the admin api key.
func (h *Handlers) RunBackup(ctx *fasthttp.RequestCtx) {
	if h.Backup == nil {
		router.WriteJSONError(ctx, fasthttp.StatusServiceUnavailable, "backups are disabled")
		return
	}
	path, err := h.Backup.RunNow(h.Ctx)
	if err != nil {
		logger.Error("backup_failed", "error", err)
		router.WriteJSONError(ctx, fasthttp.StatusInternalServerError, "backup failed")
		return
	}
	router.Respond(ctx, map[string]string{"path": path}, nil)
}
