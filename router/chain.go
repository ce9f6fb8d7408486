package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// ErrPanic wraps a value recovered from a panicking middleware.
var ErrPanic = errors.New("middleware panic")

// continuation records the decision a single middleware made through Next.
// Calls arriving after the middleware returned are dropped.
type continuation struct {
	mu     sync.Mutex
	closed bool
	called bool
	err    error
	req    *Request
}

func (c *continuation) next(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		slog.Warn("next called after middleware returned", "method", c.req.Method(), "path", c.req.OriginalPath())
	case c.called:
		slog.Warn("next called more than once", "method", c.req.Method(), "path", c.req.OriginalPath())
	default:
		c.called = true
		c.err = err
	}
}

func (c *continuation) close() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.called, c.err
}

// invoke calls fn and turns a panic into an error wrapping ErrPanic.
// http.ErrAbortHandler is re-raised so the transport can abort the connection.
func invoke(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			if v == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
				panic(v)
			}
			if e, ok := v.(error); ok {
				err = fmt.Errorf("%w: %w", ErrPanic, e)
				return
			}
			err = fmt.Errorf("%w: %v", ErrPanic, v)
		}
	}()
	return fn()
}

// chain runs one route's middleware for one request.
type chain struct {
	mws []Middleware
	res *Response
	req *Request
	pos int
}

func runChain(mws []Middleware, res *Response, req *Request) {
	c := &chain{mws: mws, res: res, req: req}
	c.run()
}

func (c *chain) run() {
	defer c.res.End()

	for c.pos < len(c.mws) {
		mw := c.mws[c.pos]
		if mw.IsErrorHandler() {
			return
		}

		advance, err := c.step(mw)
		if err != nil {
			c.fail(err)
			return
		}
		if !advance {
			return
		}
		c.pos++
	}
}

func (c *chain) step(mw Middleware) (bool, error) {
	cont := &continuation{req: c.req}
	err := invoke(func() error {
		return mw.handle(c.res, c.req, cont.next)
	})
	called, nextErr := cont.close()

	if err != nil {
		return false, err
	}
	if nextErr != nil {
		return false, nextErr
	}
	return called, nil
}

// fail routes err to the chain's trailing error handler, or logs it when the
// chain has none.
func (c *chain) fail(err error) {
	last := c.mws[len(c.mws)-1]
	if !last.IsErrorHandler() {
		slog.Error("unhandled middleware error",
			"method", c.req.Method(),
			"path", c.req.OriginalPath(),
			"err", err,
		)
		if !c.res.statusSet {
			c.res.SetStatus(http.StatusInternalServerError)
		}
		return
	}

	finalize := func(e error) {
		if e != nil {
			slog.Warn("error handler passed an error to next", "path", c.req.OriginalPath(), "err", e)
		}
		c.res.End()
	}

	if handlerErr := invoke(func() error {
		return last.handleErr(err, c.res, c.req, finalize)
	}); handlerErr != nil {
		slog.Error("error handler failed",
			"method", c.req.Method(),
			"path", c.req.OriginalPath(),
			"err", handlerErr,
			"cause", err,
		)
		if !c.res.Written() {
			c.res.SetStatus(http.StatusInternalServerError)
		}
	}
}
