package hangman

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func dictionaryServer(t *testing.T) *DictionaryClient {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		switch strings.TrimPrefix(string(ctx.Path()), "/api/v2/entries/en/") {
		case "letters":
			ctx.SetContentType("application/json")
			ctx.SetBodyString(`[{"word":"letters","meanings":[{"definitions":[{"definition":"Written Symbols"}]}]}]`)
		case "nomeans":
			ctx.SetBodyString(`[{"word":"nomeans","meanings":[]}]`)
		case "broken":
			ctx.SetStatusCode(fasthttp.StatusBadGateway)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			ctx.SetBodyString(`{"title":"No Definitions Found"}`)
		}
	}}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	c := &fasthttp.Client{Dial: func(string) (net.Conn, error) { return ln.Dial() }}
	return NewDictionaryClientWith(c, "http://dictionary.test/api/v2/entries/en", time.Second)
}

func TestDictionaryClientDefine(t *testing.T) {
	d := dictionaryServer(t)
	ctx := context.Background()

	def, err := d.Define(ctx, "letters")
	if err != nil || def != "written symbols" {
		t.Fatalf("Define(letters) = %q, %v", def, err)
	}
	for _, w := range []string{"nomeans", "unknown"} {
		def, err := d.Define(ctx, w)
		if err != nil || def != "" {
			t.Fatalf("Define(%s) = %q, %v", w, def, err)
		}
	}
	if _, err := d.Define(ctx, "broken"); err == nil {
		t.Fatalf("expected error on bad gateway")
	}
}
