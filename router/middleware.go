package router

// Next hands control back to the chain. A nil error advances to the next
// middleware; a non-nil error jumps to the route's error handler.
type Next func(err error)

// HandlerFunc is a normal middleware.
type HandlerFunc func(res *Response, req *Request, next Next) error

// ErrorHandlerFunc converts an error raised earlier in the chain into a
// response. Its next finalizes the response.
type ErrorHandlerFunc func(err error, res *Response, req *Request, next Next) error

type kind uint8

const (
	kindNone kind = iota
	kindNormal
	kindError
)

// Middleware is one entry of a route chain. The zero value is an absent
// entry and is dropped at registration.
type Middleware struct {
	kind      kind
	handle    HandlerFunc
	handleErr ErrorHandlerFunc
}

// Handle wraps fn as a normal middleware. A nil fn yields an absent entry.
func Handle(fn HandlerFunc) Middleware {
	if fn == nil {
		return Middleware{}
	}
	return Middleware{kind: kindNormal, handle: fn}
}

// HandleError wraps fn as an error handler. A nil fn yields an absent entry.
func HandleError(fn ErrorHandlerFunc) Middleware {
	if fn == nil {
		return Middleware{}
	}
	return Middleware{kind: kindError, handleErr: fn}
}

// IsZero reports whether m is an absent entry.
func (m Middleware) IsZero() bool {
	return m.kind == kindNone
}

// IsErrorHandler reports whether m was built with HandleError.
func (m Middleware) IsErrorHandler() bool {
	return m.kind == kindError
}
