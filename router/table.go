package router

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnsupportedMethod is returned when registering a route for a method the
// router does not dispatch.
var ErrUnsupportedMethod = errors.New("unsupported method")

var supportedMethods = map[string]struct{}{
	http.MethodGet:  {},
	http.MethodPost: {},
}

type route struct {
	prefix   string
	segments []string
	base     string
	order    int
	chain    []Middleware
}

// Table collects routes before a Router is built from it. A Table is not safe
// for concurrent registration.
type Table struct {
	routes map[string]map[string]*route
	order  int
}

// NewTable returns an empty route table.
func NewTable() *Table {
	return &Table{routes: make(map[string]map[string]*route)}
}

// Register stores mws under (method, prefix), dropping absent entries.
// Registering the same pair again replaces the whole chain but keeps the
// route's original registration slot.
func (t *Table) Register(method, prefix string, mws ...Middleware) error {
	if _, ok := supportedMethods[method]; !ok {
		return fmt.Errorf("register %s %s: %w", method, prefix, ErrUnsupportedMethod)
	}

	chain := make([]Middleware, 0, len(mws))
	for _, m := range mws {
		if !m.IsZero() {
			chain = append(chain, m)
		}
	}

	byPrefix, ok := t.routes[method]
	if !ok {
		byPrefix = make(map[string]*route)
		t.routes[method] = byPrefix
	}

	if existing, ok := byPrefix[prefix]; ok {
		byPrefix[prefix] = &route{
			prefix:   prefix,
			segments: existing.segments,
			base:     existing.base,
			order:    existing.order,
			chain:    chain,
		}
		return nil
	}

	t.order++
	segments := splitSegments(prefix)
	byPrefix[prefix] = &route{
		prefix:   prefix,
		segments: segments,
		base:     joinSegments(segments),
		order:    t.order,
		chain:    chain,
	}
	return nil
}

// Get registers a GET route.
func (t *Table) Get(prefix string, mws ...Middleware) *Table {
	_ = t.Register(http.MethodGet, prefix, mws...)
	return t
}

// Post registers a POST route.
func (t *Table) Post(prefix string, mws ...Middleware) *Table {
	_ = t.Register(http.MethodPost, prefix, mws...)
	return t
}
