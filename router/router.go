package router

import (
	"log/slog"
	"net/http"
)

const notFoundBody = "Route not found"

// Router dispatches requests to the chains of a frozen route table.
// It is safe for concurrent use.
type Router struct {
	routes map[string]routeSet
}

// New builds a Router from t. Later changes to t are not seen by the Router.
func New(t *Table) *Router {
	rt := &Router{routes: make(map[string]routeSet, len(t.routes))}
	for method, byPrefix := range t.routes {
		copied := make(map[string]*route, len(byPrefix))
		for prefix, r := range byPrefix {
			c := *r
			c.chain = append([]Middleware(nil), r.chain...)
			copied[prefix] = &c
		}
		rt.routes[method] = newRouteSet(copied)
	}
	return rt
}

// Match returns the prefix of the route that would handle (method, path).
func (rt *Router) Match(method, path string) (string, bool) {
	r, ok := rt.lookup(method, path)
	if !ok {
		return "", false
	}
	return r.prefix, true
}

func (rt *Router) lookup(method, path string) (*route, bool) {
	rs, ok := rt.routes[method]
	if !ok {
		return nil, false
	}
	return rs.match(path)
}

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	req := NewRequest(r)

	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
				panic(v)
			}
			slog.Error("panic while dispatching request",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", v,
			)
			if !res.Written() {
				res.SetStatus(http.StatusInternalServerError)
			}
			res.End()
		}
	}()

	route, ok := rt.lookup(r.Method, r.URL.Path)
	if !ok || len(route.chain) == 0 {
		res.Text(http.StatusNotFound, notFoundBody)
		return
	}

	req.narrow(route.base)
	runChain(route.chain, res, req)
}
