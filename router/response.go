package router

import (
	"errors"
	"html"
	"io"
	"net/http"
	"strconv"
)

// ErrFinalized is returned by writes issued after the response was finalized.
var ErrFinalized = errors.New("response already finalized")

// Response wraps an http.ResponseWriter and tracks whether the response has
// been finalized. It implements http.ResponseWriter so it can be handed to
// helpers like http.ServeContent.
type Response struct {
	w           http.ResponseWriter
	status      int
	statusSet   bool
	wroteHeader bool
	finalized   bool
	size        int
}

// NewResponse wraps w. The status defaults to 200 until set.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w, status: http.StatusOK}
}

// Header returns the response headers. Changes after the header is
// committed have no effect.
func (r *Response) Header() http.Header { return r.w.Header() }

// Status returns the current status code.
func (r *Response) Status() int { return r.status }

// Size returns the number of body bytes written.
func (r *Response) Size() int { return r.size }

// Written reports whether the status line and headers have been committed.
func (r *Response) Written() bool { return r.wroteHeader }

// Finalized reports whether the response has been completed.
func (r *Response) Finalized() bool { return r.finalized }

// SetStatus sets the status code used when the header is committed. It is a
// no-op once the header has been written.
func (r *Response) SetStatus(code int) {
	if r.wroteHeader {
		return
	}
	r.status = code
	r.statusSet = true
}

// WriteHeader sets the status and commits the header.
func (r *Response) WriteHeader(code int) {
	if r.finalized {
		return
	}
	r.SetStatus(code)
	r.commit()
}

func (r *Response) commit() {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.w.WriteHeader(r.status)
}

// Write writes body bytes, committing the header first.
func (r *Response) Write(p []byte) (int, error) {
	if r.finalized {
		return 0, ErrFinalized
	}
	r.commit()
	n, err := r.w.Write(p)
	r.size += n
	return n, err
}

// End finalizes the response. Calling it more than once is a no-op.
func (r *Response) End() {
	if r.finalized {
		return
	}
	r.commit()
	if f, ok := r.w.(http.Flusher); ok {
		f.Flush()
	}
	r.finalized = true
}

// Text writes body as text/plain with the given status and finalizes.
func (r *Response) Text(code int, body string) {
	if r.finalized {
		return
	}
	h := r.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	r.SetStatus(code)
	_, _ = io.WriteString(r, body)
	r.End()
}

// Redirect answers with 301 Moved Permanently pointing at url and finalizes.
func (r *Response) Redirect(url string) {
	if r.finalized {
		return
	}
	escaped := html.EscapeString(url)
	body := "<!DOCTYPE html>\n" +
		"<html lang=\"en\">\n" +
		"<head>\n<meta charset=\"utf-8\">\n<title>Redirecting</title>\n</head>\n" +
		"<body>\n<pre>Redirecting to <a href=\"" + escaped + "\">" + escaped + "</a></pre>\n</body>\n" +
		"</html>\n"

	h := r.Header()
	h.Set("Content-Type", "text/html; charset=UTF-8")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set("Content-Security-Policy", "default-src 'none'")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Location", url)
	r.SetStatus(http.StatusMovedPermanently)
	_, _ = io.WriteString(r, body)
	r.End()
}
