package routes

import (
	"k24chat/pkg/api/router"

	"github.com/valyala/fasthttp"
)

// channelBody is shared by the channel membership routes. Ids left out of
// the body stay invalid.
type channelBody struct {
	ChannelID int `json:"channelId"`
	UID       int `json:"uId"`
}

func decodeChannelBody(ctx *fasthttp.RequestCtx) (channelBody, bool) {
	in := channelBody{ChannelID: router.InvalidID, UID: router.InvalidID}
	return in, router.DecodeBodyOrFail(ctx, &in)
}

func (h *Handlers) CreateChannel(ctx *fasthttp.RequestCtx) {
	var in struct {
		Name     string `json:"name"`
		IsPublic bool   `json:"isPublic"`
	}
	if !router.DecodeBodyOrFail(ctx, &in) {
		return
	}
	id, err := h.Chat.CreateChannel(router.Token(ctx), in.Name, in.IsPublic)
	router.Respond(ctx, map[string]int{"channelId": id}, err)
}

func (h *Handlers) ListChannels(ctx *fasthttp.RequestCtx) {
	list, err := h.Chat.ListChannels(router.Token(ctx))
	router.Respond(ctx, map[string]interface{}{"channels": list}, err)
}

func (h *Handlers) ListAllChannels(ctx *fasthttp.RequestCtx) {
	list, err := h.Chat.ListAllChannels(router.Token(ctx))
	router.Respond(ctx, map[string]interface{}{"channels": list}, err)
}

func (h *Handlers) ChannelDetails(ctx *fasthttp.RequestCtx) {
	det, err := h.Chat.ChannelDetails(router.Token(ctx), router.QueryID(ctx, "channelId"))
	router.Respond(ctx, det, err)
}

func (h *Handlers) ChannelMessages(ctx *fasthttp.RequestCtx) {
	page, err := h.Chat.ChannelMessages(router.Token(ctx), router.QueryID(ctx, "channelId"), router.QueryID(ctx, "start"))
	router.Respond(ctx, page, err)
}

func (h *Handlers) JoinChannel(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeChannelBody(ctx); ok {
		router.Respond(ctx, nil, h.Chat.JoinChannel(router.Token(ctx), in.ChannelID))
	}
}

func (h *Handlers) InviteToChannel(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeChannelBody(ctx); ok {
		router.Respond(ctx, nil, h.Chat.InviteToChannel(router.Token(ctx), in.ChannelID, in.UID))
	}
}

func (h *Handlers) LeaveChannel(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeChannelBody(ctx); ok {
		router.Respond(ctx, nil, h.Chat.LeaveChannel(router.Token(ctx), in.ChannelID))
	}
}

func (h *Handlers) AddChannelOwner(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeChannelBody(ctx); ok {
		router.Respond(ctx, nil, h.Chat.AddChannelOwner(router.Token(ctx), in.ChannelID, in.UID))
	}
}

func (h *Handlers) RemoveChannelOwner(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeChannelBody(ctx); ok {
		router.Respond(ctx, nil, h.Chat.RemoveChannelOwner(router.Token(ctx), in.ChannelID, in.UID))
	}
}
