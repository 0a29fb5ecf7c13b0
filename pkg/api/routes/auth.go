package routes

import (
	"k24chat/pkg/api/router"

	"github.com/valyala/fasthttp"
)

func (h *Handlers) Register(ctx *fasthttp.RequestCtx) {
	var in struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		NameFirst string `json:"nameFirst"`
		NameLast  string `json:"nameLast"`
	}
	if !router.DecodeBodyOrFail(ctx, &in) {
		return
	}
	sess, err := h.Chat.Register(in.Email, in.Password, in.NameFirst, in.NameLast)
	router.Respond(ctx, sess, err)
}

func (h *Handlers) Login(ctx *fasthttp.RequestCtx) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !router.DecodeBodyOrFail(ctx, &in) {
		return
	}
	sess, err := h.Chat.Login(in.Email, in.Password)
	router.Respond(ctx, sess, err)
}

func (h *Handlers) Logout(ctx *fasthttp.RequestCtx) {
	router.Respond(ctx, nil, h.Chat.Logout(router.Token(ctx)))
}

func (h *Handlers) PasswordResetRequest(ctx *fasthttp.RequestCtx) {
	var in struct {
		Email string `json:"email"`
	}
	if !router.DecodeBodyOrFail(ctx, &in) {
		return
	}
	router.Respond(ctx, nil, h.Chat.RequestPasswordReset(h.Ctx, in.Email))
}

func (h *Handlers) PasswordReset(ctx *fasthttp.RequestCtx) {
	var in struct {
		ResetCode   string `json:"resetCode"`
		NewPassword string `json:"newPassword"`
	}
	if !router.DecodeBodyOrFail(ctx, &in) {
		return
	}
	router.Respond(ctx, nil, h.Chat.ResetPassword(in.ResetCode, in.NewPassword))
}
