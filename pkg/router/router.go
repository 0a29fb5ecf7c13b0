package router

import (
	"strings"

	"github.com/valyala/fasthttp"
)

// Router dispatches fasthttp requests by method and path. Paths may contain
// {name} segments, and a final {name...} segment captures the rest of the path.
type Router struct {
	routes   map[string][]route
	notFound fasthttp.RequestHandler
	methodNA fasthttp.RequestHandler
}

type route struct {
	pattern  string
	segments []segment
	handler  fasthttp.RequestHandler
}

type segment struct {
	name     string
	isParam  bool
	catchAll bool
}

// New constructs a new Router.
func New() *Router {
	return &Router{routes: make(map[string][]route)}
}

// Handler satisfies the fasthttp.Server handler interface.
func (r *Router) Handler(ctx *fasthttp.RequestCtx) {
	method := string(ctx.Method())
	path := string(ctx.Path())
	if list, ok := r.routes[method]; ok {
		for _, rt := range list {
			if values, ok := match(path, rt.segments); ok {
				for k, v := range values {
					ctx.SetUserValue(k, v)
				}
				rt.handler(ctx)
				return
			}
		}
	}
	if r.methodNA != nil && r.matchesOtherMethod(method, path) {
		r.methodNA(ctx)
		return
	}
	if r.notFound != nil {
		r.notFound(ctx)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNotFound)
}

func (r *Router) matchesOtherMethod(method, path string) bool {
	for m, list := range r.routes {
		if m == method {
			continue
		}
		for _, rt := range list {
			if _, ok := match(path, rt.segments); ok {
				return true
			}
		}
	}
	return false
}

// GET registers a GET handler.
func (r *Router) GET(path string, h fasthttp.RequestHandler) {
	r.add(fasthttp.MethodGet, path, h)
}

// POST registers a POST handler.
func (r *Router) POST(path string, h fasthttp.RequestHandler) {
	r.add(fasthttp.MethodPost, path, h)
}

// PUT registers a PUT handler.
func (r *Router) PUT(path string, h fasthttp.RequestHandler) {
	r.add(fasthttp.MethodPut, path, h)
}

// DELETE registers a DELETE handler.
func (r *Router) DELETE(path string, h fasthttp.RequestHandler) {
	r.add(fasthttp.MethodDelete, path, h)
}

// NotFound registers a handler for unmatched routes.
func (r *Router) NotFound(h fasthttp.RequestHandler) {
	r.notFound = h
}

// MethodNotAllowed registers a handler for paths that exist under another method.
func (r *Router) MethodNotAllowed(h fasthttp.RequestHandler) {
	r.methodNA = h
}

// Routes lists the registered "METHOD pattern" pairs.
func (r *Router) Routes() []string {
	var out []string
	for m, list := range r.routes {
		for _, rt := range list {
			out = append(out, m+" "+rt.pattern)
		}
	}
	return out
}

func (r *Router) add(method, path string, h fasthttp.RequestHandler) {
	segments := parse(path)
	r.routes[method] = append(r.routes[method], route{pattern: path, segments: segments, handler: h})
}

func parse(path string) []segment {
	if path == "" {
		return nil
	}
	if path[0] == '/' {
		path = path[1:]
	}
	if path == "" {
		return []segment{{name: ""}}
	}
	parts := strings.Split(path, "/")
	segs := make([]segment, len(parts))
	for i, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") && len(part) > 2 {
			name := part[1 : len(part)-1]
			if strings.HasSuffix(name, "...") && i == len(parts)-1 {
				segs[i] = segment{name: strings.TrimSuffix(name, "..."), isParam: true, catchAll: true}
				continue
			}
			segs[i] = segment{name: name, isParam: true}
		} else {
			segs[i] = segment{name: part}
		}
	}
	return segs
}

func match(path string, segs []segment) (map[string]string, bool) {
	if len(segs) == 1 && !segs[0].isParam && segs[0].name == "" {
		if path == "/" || path == "" {
			return map[string]string{}, true
		}
		return nil, false
	}
	if path == "" {
		path = "/"
	}
	if path[0] == '/' {
		path = path[1:]
	}
	parts := []string{}
	if path != "" {
		parts = strings.Split(path, "/")
	}
	last := len(segs) - 1
	if last >= 0 && segs[last].catchAll {
		if len(parts) < last {
			return nil, false
		}
	} else if len(parts) != len(segs) {
		return nil, false
	}
	values := make(map[string]string)
	for i, seg := range segs {
		if seg.catchAll {
			values[seg.name] = strings.Join(parts[i:], "/")
			break
		}
		if seg.isParam {
			if parts[i] == "" {
				return nil, false
			}
			values[seg.name] = parts[i]
			continue
		}
		if seg.name != parts[i] {
			return nil, false
		}
	}
	return values, true
}
