package router

import (
	"testing"

	"github.com/valyala/fasthttp"
)

func serve(r *Router, method, path string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	r.Handler(ctx)
	return ctx
}

func TestRouterDispatch(t *testing.T) {
	r := New()
	r.GET("/img/{file}", func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString("img:" + ctx.UserValue("file").(string))
	})
	r.GET("/admin/debug/pprof/{profile...}", func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString("pprof:" + ctx.UserValue("profile").(string))
	})
	r.POST("/message/send/v2", func(ctx *fasthttp.RequestCtx) { ctx.SetBodyString("sent") })
	r.MethodNotAllowed(func(ctx *fasthttp.RequestCtx) { ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed) })

	cases := []struct {
		method, path string
		status       int
		body         string
	}{
		{"GET", "/img/cropped3.jpg", 200, "img:cropped3.jpg"},
		{"GET", "/img/", 404, ""},
		{"GET", "/img/a/b", 404, ""},
		{"GET", "/admin/debug/pprof/", 200, "pprof:"},
		{"GET", "/admin/debug/pprof/heap", 200, "pprof:heap"},
		{"GET", "/admin/debug/pprof/trace/x", 200, "pprof:trace/x"},
		{"POST", "/message/send/v2", 200, "sent"},
		{"GET", "/message/send/v2", 405, ""},
		{"GET", "/nope", 404, ""},
	}
	for _, c := range cases {
		ctx := serve(r, c.method, c.path)
		if ctx.Response.StatusCode() != c.status {
			t.Errorf("%s %s: status %d, want %d", c.method, c.path, ctx.Response.StatusCode(), c.status)
			continue
		}
		if c.body != "" && string(ctx.Response.Body()) != c.body {
			t.Errorf("%s %s: body %q, want %q", c.method, c.path, ctx.Response.Body(), c.body)
		}
	}
}

func TestNotFoundHandler(t *testing.T) {
	r := New()
	r.NotFound(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetBodyString("missing")
	})
	ctx := serve(r, "DELETE", "/clear/v1")
	if ctx.Response.StatusCode() != 404 || string(ctx.Response.Body()) != "missing" {
		t.Fatalf("got %d %q", ctx.Response.StatusCode(), ctx.Response.Body())
	}
}
