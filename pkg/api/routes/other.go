package routes

import (
	"os"
	"path/filepath"
	"strings"

	"k24chat/pkg/api/router"
	"k24chat/pkg/errs"

	"github.com/valyala/fasthttp"
)

func (h *Handlers) Echo(ctx *fasthttp.RequestCtx) {
	v := string(ctx.QueryArgs().Peek("echo"))
	if v == "echo" {
		router.WriteError(ctx, errs.BadRequest(`Cannot echo "echo"`))
		return
	}
	router.Respond(ctx, v, nil)
}

func (h *Handlers) Clear(ctx *fasthttp.RequestCtx) {
	router.Respond(ctx, nil, h.Chat.Clear())
}

func (h *Handlers) Notifications(ctx *fasthttp.RequestCtx) {
	notes, err := h.Chat.Notifications(router.Token(ctx))
	router.Respond(ctx, map[string]interface{}{"notifications": notes}, err)
}

func (h *Handlers) Search(ctx *fasthttp.RequestCtx) {
	msgs, err := h.Chat.Search(router.Token(ctx), string(ctx.QueryArgs().Peek("queryStr")))
	router.Respond(ctx, map[string]interface{}{"messages": msgs}, err)
}

func (h *Handlers) UserStats(ctx *fasthttp.RequestCtx) {
	st, err := h.Chat.UserStats(router.Token(ctx))
	router.Respond(ctx, map[string]interface{}{"userStats": st}, err)
}

func (h *Handlers) WorkspaceStats(ctx *fasthttp.RequestCtx) {
	st, err := h.Chat.WorkspaceStats(router.Token(ctx))
	router.Respond(ctx, map[string]interface{}{"workspaceStats": st}, err)
}

// Image serves a stored profile photo.
func (h *Handlers) Image(ctx *fasthttp.RequestCtx) {
	name, ok := router.ExtractParamOrFail(ctx, "file", "file missing")
	if !ok {
		return
	}
	if h.MediaDir == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".jpg") {
		router.WriteJSONError(ctx, fasthttp.StatusNotFound, "not found")
		return
	}
	path := filepath.Join(h.MediaDir, name)
	if fi, err := os.Stat(path); err != nil || fi.IsDir() {
		router.WriteJSONError(ctx, fasthttp.StatusNotFound, "not found")
		return
	}
	fasthttp.ServeFile(ctx, path)
}
