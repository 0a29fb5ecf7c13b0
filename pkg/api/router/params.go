package router

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"
)

// InvalidID stands in for a missing or malformed numeric parameter. No
// resolver accepts it, so the operation still authenticates first and then
// rejects the id.
const InvalidID = math.MinInt32

// GetHeader returns header value with trimming
func GetHeader(ctx *fasthttp.RequestCtx, key string) string {
	return strings.TrimSpace(string(ctx.Request.Header.Peek(key)))
}

// Token returns the session token sent by the client.
func Token(ctx *fasthttp.RequestCtx) string {
	return GetHeader(ctx, "token")
}

// GetQuery returns query parameter value with trimming
func GetQuery(ctx *fasthttp.RequestCtx, key string) string {
	return strings.TrimSpace(string(ctx.QueryArgs().Peek(key)))
}

// QueryID parses an integer query parameter, or returns InvalidID.
func QueryID(ctx *fasthttp.RequestCtx, key string) int {
	v, err := strconv.Atoi(GetQuery(ctx, key))
	if err != nil {
		return InvalidID
	}
	return v
}

// PathParam returns a value captured by the router.
func PathParam(ctx *fasthttp.RequestCtx, param string) string {
	if v := ctx.UserValue(param); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

// ExtractParamOrFail returns a path parameter or writes a 400 when it is empty.
func ExtractParamOrFail(ctx *fasthttp.RequestCtx, param string, missingMsg string) (string, bool) {
	val := PathParam(ctx, param)
	if val == "" {
		WriteJSONError(ctx, fasthttp.StatusBadRequest, missingMsg)
		return "", false
	}
	return val, true
}

// DecodeBodyOrFail unmarshals the JSON body into v, writing a 400 on failure.
func DecodeBodyOrFail(ctx *fasthttp.RequestCtx, v interface{}) bool {
	body := ctx.PostBody()
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, v); err != nil {
		WriteJSONError(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
