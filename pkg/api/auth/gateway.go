package auth

import (
	"crypto/subtle"
	"net"
	"strings"

	"github.com/valyala/fasthttp"

	"k24chat/pkg/api/router"
	"k24chat/pkg/state/logger"
)

// SecConfig carries the request-gate settings.
type SecConfig struct {
	AllowedOrigins []string
	AdminKeys      map[string]struct{}
	RPS            float64
	Burst          int
}

// adminPrefixes are operator routes that need an admin API key instead of a
// session token. The chat's own /admin/user routes are token authenticated.
var adminPrefixes = []string{"/admin/debug", "/admin/jobs"}

// Gateway is the request middleware: cors, admin key gate and rate limiting.
type Gateway struct {
	cfg      SecConfig
	limiters *limiterPool
}

func NewGateway(cfg SecConfig) *Gateway {
	return &Gateway{cfg: cfg, limiters: newLimiterPool(cfg.RPS, cfg.Burst)}
}

// Shutdown releases the limiter pool.
func (g *Gateway) Shutdown() { g.limiters.Shutdown() }

func (g *Gateway) Wrap(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		logger.LogRequestFast(ctx)

		// cors headers and handle options shortcut
		origin := router.GetHeader(ctx, "Origin")
		if origin != "" && originAllowed(origin, g.cfg.AllowedOrigins) {
			ctx.Response.Header.Set("Access-Control-Allow-Origin", origin)
			ctx.Response.Header.Set("Vary", "Origin")
			ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			ctx.Response.Header.Set("Access-Control-Max-Age", "600")
			ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type,token,Authorization,X-API-Key")
		}
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		if publicAllowedPath(ctx) {
			next(ctx)
			return
		}

		path := string(ctx.Path())
		key := router.Token(ctx)
		if isAdminPath(path) {
			apiKey := extractAPIKey(ctx)
			if !g.adminKey(apiKey) {
				router.WriteJSONError(ctx, fasthttp.StatusUnauthorized, "unauthorized")
				logger.Warn("request_unauthorized", "path", path, "remote", ctx.RemoteAddr().String())
				return
			}
			key = apiKey
		}
		if key == "" {
			key = clientIP(ctx)
		}

		if !g.limiters.Allow(key) {
			router.WriteJSONError(ctx, fasthttp.StatusTooManyRequests, "rate limit exceeded")
			logger.Warn("rate_limited", "path", path)
			return
		}
		next(ctx)
	}
}

func (g *Gateway) adminKey(key string) bool {
	if key == "" {
		return false
	}
	for k := range g.cfg.AdminKeys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			return true
		}
	}
	return false
}

// extractAPIKey reads "Authorization: Bearer <key>" or X-API-Key.
func extractAPIKey(ctx *fasthttp.RequestCtx) string {
	if auth := router.GetHeader(ctx, "Authorization"); auth != "" {
		parts := strings.Fields(auth)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return router.GetHeader(ctx, "X-API-Key")
}

func isAdminPath(path string) bool {
	for _, p := range adminPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func clientIP(ctx *fasthttp.RequestCtx) string {
	host := ctx.RemoteAddr().String()
	h, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}
	return h
}

func originAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

func publicAllowedPath(ctx *fasthttp.RequestCtx) bool {
	path := string(ctx.Path())
	method := string(ctx.Method())
	return (path == "/healthz" || path == "/readyz") && method == fasthttp.MethodGet
}
