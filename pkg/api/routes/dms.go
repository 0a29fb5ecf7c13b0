package routes

import (
	"k24chat/pkg/api/router"

	"github.com/valyala/fasthttp"
)

func (h *Handlers) CreateDM(ctx *fasthttp.RequestCtx) {
	var in struct {
		UIDs []int `json:"uIds"`
	}
	if !router.DecodeBodyOrFail(ctx, &in) {
		return
	}
	id, err := h.Chat.CreateDM(router.Token(ctx), in.UIDs)
	router.Respond(ctx, map[string]int{"dmId": id}, err)
}

func (h *Handlers) ListDMs(ctx *fasthttp.RequestCtx) {
	list, err := h.Chat.ListDMs(router.Token(ctx))
	router.Respond(ctx, map[string]interface{}{"dms": list}, err)
}

func (h *Handlers) RemoveDM(ctx *fasthttp.RequestCtx) {
	router.Respond(ctx, nil, h.Chat.RemoveDM(router.Token(ctx), router.QueryID(ctx, "dmId")))
}

func (h *Handlers) DMDetails(ctx *fasthttp.RequestCtx) {
	det, err := h.Chat.DMDetails(router.Token(ctx), router.QueryID(ctx, "dmId"))
	router.Respond(ctx, det, err)
}

func (h *Handlers) LeaveDM(ctx *fasthttp.RequestCtx) {
	in := struct {
		DMID int `json:"dmId"`
	}{DMID: router.InvalidID}
	if !router.DecodeBodyOrFail(ctx, &in) {
		return
	}
	router.Respond(ctx, nil, h.Chat.LeaveDM(router.Token(ctx), in.DMID))
}

func (h *Handlers) DMMessages(ctx *fasthttp.RequestCtx) {
	page, err := h.Chat.DMMessages(router.Token(ctx), router.QueryID(ctx, "dmId"), router.QueryID(ctx, "start"))
	router.Respond(ctx, page, err)
}
