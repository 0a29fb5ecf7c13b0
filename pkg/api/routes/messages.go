package routes

import (
	"k24chat/pkg/api/router"

	"github.com/valyala/fasthttp"
)

type messageBody struct {
	ChannelID   int    `json:"channelId"`
	DMID        int    `json:"dmId"`
	MessageID   int    `json:"messageId"`
	OgMessageID int    `json:"ogMessageId"`
	ReactID     int    `json:"reactId"`
	Message     string `json:"message"`
	TimeSent    int64  `json:"timeSent"`
}

// decodeMessageBody leaves absent ids invalid.
func decodeMessageBody(ctx *fasthttp.RequestCtx) (messageBody, bool) {
	return decodeMessageBodyWith(ctx, router.InvalidID)
}

// decodeMessageBodyWith sets absent channel and dm ids to target. Shares
// mark the unused target with -1.
func decodeMessageBodyWith(ctx *fasthttp.RequestCtx, target int) (messageBody, bool) {
	in := messageBody{
		ChannelID:   target,
		DMID:        target,
		MessageID:   router.InvalidID,
		OgMessageID: router.InvalidID,
		ReactID:     router.InvalidID,
	}
	return in, router.DecodeBodyOrFail(ctx, &in)
}

func messageID(ctx *fasthttp.RequestCtx, id int, err error) {
	router.Respond(ctx, map[string]int{"messageId": id}, err)
}

func (h *Handlers) SendMessage(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeMessageBody(ctx); ok {
		id, err := h.Chat.SendMessage(router.Token(ctx), in.ChannelID, in.Message)
		messageID(ctx, id, err)
	}
}

func (h *Handlers) SendDM(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeMessageBody(ctx); ok {
		id, err := h.Chat.SendDM(router.Token(ctx), in.DMID, in.Message)
		messageID(ctx, id, err)
	}
}

func (h *Handlers) SendLater(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeMessageBody(ctx); ok {
		id, err := h.Chat.SendLater(router.Token(ctx), in.ChannelID, in.Message, in.TimeSent)
		messageID(ctx, id, err)
	}
}

func (h *Handlers) SendLaterDM(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeMessageBody(ctx); ok {
		id, err := h.Chat.SendLaterDM(router.Token(ctx), in.DMID, in.Message, in.TimeSent)
		messageID(ctx, id, err)
	}
}

func (h *Handlers) ShareMessage(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeMessageBodyWith(ctx, -1); ok {
		id, err := h.Chat.ShareMessage(router.Token(ctx), in.OgMessageID, in.Message, in.ChannelID, in.DMID)
		router.Respond(ctx, map[string]int{"sharedMessageId": id}, err)
	}
}

func (h *Handlers) EditMessage(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeMessageBody(ctx); ok {
		router.Respond(ctx, nil, h.Chat.EditMessage(router.Token(ctx), in.MessageID, in.Message))
	}
}

func (h *Handlers) RemoveMessage(ctx *fasthttp.RequestCtx) {
	router.Respond(ctx, nil, h.Chat.RemoveMessage(router.Token(ctx), router.QueryID(ctx, "messageId")))
}

func (h *Handlers) ReactMessage(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeMessageBody(ctx); ok {
		router.Respond(ctx, nil, h.Chat.ReactMessage(router.Token(ctx), in.MessageID, in.ReactID))
	}
}

func (h *Handlers) UnreactMessage(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeMessageBody(ctx); ok {
		router.Respond(ctx, nil, h.Chat.UnreactMessage(router.Token(ctx), in.MessageID, in.ReactID))
	}
}

func (h *Handlers) PinMessage(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeMessageBody(ctx); ok {
		router.Respond(ctx, nil, h.Chat.PinMessage(router.Token(ctx), in.MessageID))
	}
}

func (h *Handlers) UnpinMessage(ctx *fasthttp.RequestCtx) {
	if in, ok := decodeMessageBody(ctx); ok {
		router.Respond(ctx, nil, h.Chat.UnpinMessage(router.Token(ctx), in.MessageID))
	}
}
