package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sagarc03/dropzone"
	"github.com/sagarc03/dropzone/router"
)

// multipartMemory is the part of a multipart body kept in memory before
// parts spill to temporary files.
const multipartMemory = 32 << 20

// BasicAuth rejects requests without valid credentials with 401 and a
// WWW-Authenticate challenge for realm.
func BasicAuth(realm string, store dropzone.CredentialStore) router.Middleware {
	if realm == "" {
		realm = "realm"
	}
	challenge := fmt.Sprintf("Basic realm=%q", realm)

	return router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
		username, password, ok := req.HTTP().BasicAuth()
		if ok && store != nil {
			err := store.Verify(username, password)
			if err == nil {
				next(nil)
				return nil
			}
			slog.Debug("basic auth failed", "user", username, "err", err)
		}

		res.Header().Set("WWW-Authenticate", challenge)
		res.Text(http.StatusUnauthorized, "Access denied")
		return nil
	})
}

// Multipart parses multipart/form-data bodies into req.Body and req.Files.
// Other requests pass through untouched. Bodies larger than maxBytes fail
// with dropzone.ErrTooLarge; maxBytes <= 0 disables the limit.
func Multipart(maxBytes int64) router.Middleware {
	return router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
		mediaType, _, err := mime.ParseMediaType(req.Header().Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			next(nil)
			return nil
		}

		r := req.HTTP()
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(res, r.Body, maxBytes)
		}

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return fmt.Errorf("multipart: %w: limit %d bytes", dropzone.ErrTooLarge, tooLarge.Limit)
			}
			return fmt.Errorf("multipart: %w: %w", dropzone.ErrInvalidInput, err)
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		for name, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				req.Body[name] = values[0]
			}
		}

		for name, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			fh := headers[0]

			f, err := fh.Open()
			if err != nil {
				return fmt.Errorf("multipart: open %q: %w", name, err)
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				return fmt.Errorf("multipart: read %q: %w", name, err)
			}

			req.Files[name] = &router.File{
				Name:     fh.Filename,
				MimeType: fh.Header.Get("Content-Type"),
				Data:     data,
			}
		}

		next(nil)
		return nil
	})
}

// Static serves files from fsys at the narrowed request path. A directory
// is served through its index.html. Misses fall through to the next entry.
func Static(fsys fs.FS) router.Middleware {
	return router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
		name := strings.TrimPrefix(path.Clean(req.Path), "/")
		if name == "" {
			name = "."
		}

		info, err := fs.Stat(fsys, name)
		if err == nil && info.IsDir() {
			name = path.Join(name, "index.html")
			info, err = fs.Stat(fsys, name)
		}
		if err != nil || !info.Mode().IsRegular() {
			next(nil)
			return nil
		}

		f, err := fsys.Open(name)
		if err != nil {
			return fmt.Errorf("static %s: %w", name, err)
		}
		defer func() { _ = f.Close() }()

		content, ok := f.(io.ReadSeeker)
		if !ok {
			data, err := io.ReadAll(f)
			if err != nil {
				return fmt.Errorf("static %s: %w", name, err)
			}
			content = bytes.NewReader(data)
		}

		http.ServeContent(res, req.HTTP(), name, info.ModTime(), content)
		return nil
	})
}

// RedirectRoot sends requests for exactly "/" to target and passes
// everything else on.
func RedirectRoot(target string) router.Middleware {
	return router.Handle(func(res *router.Response, req *router.Request, next router.Next) error {
		if req.OriginalPath() == "/" {
			res.Redirect(target)
			return nil
		}
		next(nil)
		return nil
	})
}

// AccessLog logs one line per request with status, size and duration.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			slog.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
