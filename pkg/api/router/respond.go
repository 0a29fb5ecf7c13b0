package router

import (
	"encoding/json"

	"k24chat/pkg/errs"
	"k24chat/pkg/state/logger"

	"github.com/valyala/fasthttp"
)

// WriteJSON writes a JSON response.
func WriteJSON(ctx *fasthttp.RequestCtx, data interface{}) error {
	ctx.Response.Header.Set("Content-Type", "application/json")
	return json.NewEncoder(ctx).Encode(data)
}

// WriteJSONError writes a JSON error response.
func WriteJSONError(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.SetStatusCode(status)
	ctx.Response.Header.Set("Content-Type", "application/json")
	_ = json.NewEncoder(ctx).Encode(map[string]string{"error": message})
}

// WriteJSONOk writes the empty object returned by operations without a result.
func WriteJSONOk(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.SetBodyString("{}\n")
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.KindBadRequest:
		return fasthttp.StatusBadRequest
	case errs.KindForbidden:
		return fasthttp.StatusForbidden
	default:
		return fasthttp.StatusInternalServerError
	}
}

// WriteError writes err with the status for its kind. Uncategorised errors
// are logged and reported without detail.
func WriteError(ctx *fasthttp.RequestCtx, err error) {
	status := StatusFor(err)
	if status == fasthttp.StatusInternalServerError {
		logger.Error("request_failed", "path", string(ctx.Path()), "error", err)
		WriteJSONError(ctx, status, "internal error")
		return
	}
	WriteJSONError(ctx, status, err.Error())
}

// Respond writes v on success or the mapped error otherwise.
func Respond(ctx *fasthttp.RequestCtx, v interface{}, err error) {
	if err != nil {
		WriteError(ctx, err)
		return
	}
	if v == nil {
		WriteJSONOk(ctx)
		return
	}
	if err := WriteJSON(ctx, v); err != nil {
		logger.Error("response_encode_failed", "path", string(ctx.Path()), "error", err)
	}
}
