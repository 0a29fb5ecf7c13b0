package logger

import (
	"strings"
	"unicode/utf8"

	"github.com/valyala/fasthttp"
)

func maskedValue(v string) string {
	if v == "" {
		return ""
	}
	// keep first and last rune, mask the middle with fixed asterisks
	l := utf8.RuneCountInString(v)
	if l <= 2 {
		return "<redacted>"
	}
	first, _ := utf8.DecodeRuneInString(v)
	last, _ := utf8.DecodeLastRuneInString(v)
	return string(first) + "*****" + string(last)
}

var sensitiveHeaders = map[string]bool{
	"token":         true,
	"authorization": true,
	"x-api-key":     true,
	"cookie":        true,
}

func redactHeaderValue(k string, v string) string {
	if v == "" {
		return ""
	}
	if sensitiveHeaders[strings.ToLower(k)] {
		return maskedValue(v)
	}
	return v
}

// SafeHeadersFast renders the request headers with credentials masked.
func SafeHeadersFast(ctx *fasthttp.RequestCtx) string {
	parts := make([]string, 0)
	ctx.Request.Header.VisitAll(func(k, v []byte) {
		key := string(k)
		parts = append(parts, key+"="+redactHeaderValue(key, string(v)))
	})
	return strings.Join(parts, "; ")
}

func LogRequestFast(ctx *fasthttp.RequestCtx) {
	if Log == nil {
		return
	}
	Info("incoming_request",
		"method", string(ctx.Method()),
		"remote", ctx.RemoteAddr().String(),
		"path", string(ctx.Path()),
	)
	Debug("incoming_request_headers", "headers", SafeHeadersFast(ctx))
}
