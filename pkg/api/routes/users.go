package routes

import (
	"k24chat/pkg/api/router"

	"github.com/valyala/fasthttp"
)

func (h *Handlers) Profile(ctx *fasthttp.RequestCtx) {
	p, err := h.Chat.Profile(router.Token(ctx), router.QueryID(ctx, "uId"))
	router.Respond(ctx, map[string]interface{}{"user": p}, err)
}

func (h *Handlers) AllUsers(ctx *fasthttp.RequestCtx) {
	users, err := h.Chat.AllUsers(router.Token(ctx))
	router.Respond(ctx, map[string]interface{}{"users": users}, err)
}

func (h *Handlers) SetName(ctx *fasthttp.RequestCtx) {
	var in struct {
		NameFirst string `json:"nameFirst"`
		NameLast  string `json:"nameLast"`
	}
	if router.DecodeBodyOrFail(ctx, &in) {
		router.Respond(ctx, nil, h.Chat.SetName(router.Token(ctx), in.NameFirst, in.NameLast))
	}
}

func (h *Handlers) SetEmail(ctx *fasthttp.RequestCtx) {
	var in struct {
		Email string `json:"email"`
	}
	if router.DecodeBodyOrFail(ctx, &in) {
		router.Respond(ctx, nil, h.Chat.SetEmail(router.Token(ctx), in.Email))
	}
}

func (h *Handlers) SetHandle(ctx *fasthttp.RequestCtx) {
	var in struct {
		Handle string `json:"handleStr"`
	}
	if router.DecodeBodyOrFail(ctx, &in) {
		router.Respond(ctx, nil, h.Chat.SetHandle(router.Token(ctx), in.Handle))
	}
}

func (h *Handlers) UploadPhoto(ctx *fasthttp.RequestCtx) {
	var in struct {
		ImgURL string `json:"imgUrl"`
		XStart int    `json:"xStart"`
		YStart int    `json:"yStart"`
		XEnd   int    `json:"xEnd"`
		YEnd   int    `json:"yEnd"`
	}
	if !router.DecodeBodyOrFail(ctx, &in) {
		return
	}
	err := h.Chat.UploadPhoto(h.Ctx, router.Token(ctx), in.ImgURL, in.XStart, in.YStart, in.XEnd, in.YEnd)
	router.Respond(ctx, nil, err)
}
