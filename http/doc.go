// Package http plugs the upload service into router chains.
//
// It provides the collaborators the routes are built from:
//
//   - BasicAuth: 401 challenge unless the credentials verify
//   - Multipart: parses multipart/form-data into Request.Body and Request.Files
//   - Static: serves files from an fs.FS, falling through on misses
//   - RedirectRoot: sends "/" to the upload page
//   - NotFoundPage: HTML 404 at the end of GET chains
//   - HandleError, HandleAPIError: trailing error handlers
//
// # Routes
//
//	GET  /upload       upload page (embedded, or ui.path)
//	GET  /             redirect to /upload, otherwise stored files
//	POST /upload       store a file; the body is the URL path it is served under
//	GET  /api/uploads  JSON list of indexed uploads (prefix, limit, cursor)
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{
//	    Auth:  http.AuthConfig{Enabled: true, Realm: "dropzone", Store: users},
//	    Files: root.FS(),
//	}, service)
//
//	srv := router.NewServer(router.ServerConfig{Addr: ":8080"}, handler.Router())
//	err := srv.ListenAndServe(ctx, nil)
//
// Router wraps the dispatcher with chi's RequestID and RealIP middleware, an
// access log and, when enabled, CORS.
//
// # Upload errors
//
// Upload failures are answered in plain text:
//
//	400 File in parameter "file" not attached
//	400 "folder" parameter is not valid
//	400 Filename is not valid
//	409 File with given name is exists
//	413 File is too large
//	500 [Unexpected error]: ...
package http
