package router

import (
	"context"
	"net/http"
	"strings"
)

// File is an uploaded file held in memory.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// Request is the per-request view handed to middleware.
type Request struct {
	raw          *http.Request
	originalPath string

	// Path is the request path relative to the matched route prefix.
	// Middleware may rewrite it for the entries that follow.
	Path string

	// Body and Files are filled by form-parsing middleware.
	Body  map[string]string
	Files map[string]*File
}

// NewRequest wraps r. Path starts out equal to the original path.
func NewRequest(r *http.Request) *Request {
	return &Request{
		raw:          r,
		originalPath: r.URL.Path,
		Path:         r.URL.Path,
		Body:         make(map[string]string),
		Files:        make(map[string]*File),
	}
}

// Method returns the HTTP method.
func (r *Request) Method() string { return r.raw.Method }

// OriginalPath returns the full request path before prefix narrowing.
func (r *Request) OriginalPath() string { return r.originalPath }

// Header returns the request headers.
func (r *Request) Header() http.Header { return r.raw.Header }

// Context returns the request context.
func (r *Request) Context() context.Context { return r.raw.Context() }

// HTTP returns the underlying request. The query string is only available
// here.
func (r *Request) HTTP() *http.Request { return r.raw }

// narrow strips base from the original path.
func (r *Request) narrow(base string) {
	rest := strings.TrimPrefix(r.originalPath, base)
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	r.Path = rest
}
