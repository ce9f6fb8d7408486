// Package router implements the request dispatcher used by dropzone.
//
// Routes are registered per HTTP method under a path prefix. A request is
// dispatched to the route whose prefix shares the most leading path segments
// with the request path, and the route's middleware chain runs one entry at a
// time.
//
// # Middleware
//
// A chain is built from two kinds of entries:
//
//   - Handle wraps a normal middleware. It receives the response, the request
//     and a Next continuation.
//   - HandleError wraps an error handler. It only runs when an earlier entry
//     reported an error and it is the last entry of the chain.
//
// A middleware either calls next(nil) to pass control on, calls next(err) or
// returns an error to abort the chain, or does neither, which ends the chain.
// A panic inside a middleware is treated the same as a returned error.
//
// The response is finalized exactly once, whichever way the chain ends:
//
//	t := router.NewTable()
//	t.Get("/upload", authMiddleware, router.Handle(serveUI))
//	t.Post("/upload", parseForm, router.Handle(upload), router.HandleError(reportError))
//
//	srv := router.NewServer(router.ServerConfig{Addr: ":8081"}, router.New(t))
//	err := srv.ListenAndServe(ctx, func(addr net.Addr) {
//	    slog.Info("listening", "addr", addr)
//	})
//
// # Path narrowing
//
// Before the chain runs, Request.Path is rewritten relative to the matched
// prefix: a request for /upload/sub/file.txt matched by /upload sees
// /sub/file.txt. The full path stays available via Request.OriginalPath.
//
// Query strings never take part in matching.
package router
