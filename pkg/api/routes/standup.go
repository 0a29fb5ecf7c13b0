package routes

import (
	"k24chat/pkg/api/router"

	"github.com/valyala/fasthttp"
)

func (h *Handlers) StartStandup(ctx *fasthttp.RequestCtx) {
	in := struct {
		ChannelID int   `json:"channelId"`
		Length    int64 `json:"length"`
	}{ChannelID: router.InvalidID}
	if !router.DecodeBodyOrFail(ctx, &in) {
		return
	}
	finish, err := h.Chat.StartStandup(router.Token(ctx), in.ChannelID, in.Length)
	router.Respond(ctx, map[string]int64{"timeFinish": finish}, err)
}

func (h *Handlers) SendStandup(ctx *fasthttp.RequestCtx) {
	in := struct {
		ChannelID int    `json:"channelId"`
		Message   string `json:"message"`
	}{ChannelID: router.InvalidID}
	if router.DecodeBodyOrFail(ctx, &in) {
		router.Respond(ctx, nil, h.Chat.SendStandup(router.Token(ctx), in.ChannelID, in.Message))
	}
}

func (h *Handlers) StandupActive(ctx *fasthttp.RequestCtx) {
	st, err := h.Chat.StandupActive(router.Token(ctx), router.QueryID(ctx, "channelId"))
	router.Respond(ctx, st, err)
}
