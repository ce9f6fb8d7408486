package http

import (
	"context"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sagarc03/dropzone"
	"github.com/sagarc03/dropzone/router"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

type Service interface {
	Upload(ctx context.Context, req dropzone.UploadRequest) (dropzone.Upload, error)
	List(ctx context.Context, query dropzone.ListQuery) (dropzone.ListResult, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// AuthConfig enables basic auth on the upload routes.
type AuthConfig struct {
	Enabled bool
	Realm   string
	Store   dropzone.CredentialStore
}

type HandlerConfig struct {
	Auth          AuthConfig
	CORS          CORSConfig
	MaxUploadSize int64 // 0 means no limit
	// Files serves stored uploads under "/".
	Files fs.FS
	// UI serves the upload page under "/upload". Nil uses the embedded page.
	UI fs.FS
}

// Handler wires the upload service into router chains.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Routes builds the route table:
//
//	GET  /upload       auth, upload page, not found page
//	GET  /             redirect to /upload, stored files, not found page
//	POST /upload       auth, multipart parser, upload, error handler
//	GET  /api/uploads  auth, list, error handler
func (h *Handler) Routes() *router.Table {
	auth := router.Middleware{}
	if h.config.Auth.Enabled {
		auth = BasicAuth(h.config.Auth.Realm, h.config.Auth.Store)
	}

	ui := h.config.UI
	if ui == nil {
		ui = EmbeddedUI()
	}

	files := router.Middleware{}
	if h.config.Files != nil {
		files = Static(h.config.Files)
	}

	t := router.NewTable()
	t.Get("/upload", auth, Static(ui), NotFoundPage())
	t.Get("/", RedirectRoot("/upload"), files, NotFoundPage())
	t.Post("/upload", auth, Multipart(h.config.MaxUploadSize), router.Handle(h.handleUpload), router.HandleError(HandleError))
	t.Get("/api/uploads", auth, router.Handle(h.handleList), router.HandleError(HandleAPIError))

	return t
}

// Router returns the dispatcher for Routes wrapped in the transport
// middleware: request IDs, real client IP, access log and optional CORS.
func (h *Handler) Router() http.Handler {
	mws := chi.Middlewares{middleware.RequestID, middleware.RealIP, AccessLog}

	if h.config.CORS.Enabled {
		mws = append(mws, cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	return mws.Handler(router.New(h.Routes()))
}

func (h *Handler) handleUpload(res *router.Response, req *router.Request, _ router.Next) error {
	var file *dropzone.FileData
	if f := req.Files["file"]; f != nil {
		file = &dropzone.FileData{Name: f.Name, MimeType: f.MimeType, Data: f.Data}
	}

	u, err := h.service.Upload(req.Context(), dropzone.UploadRequest{
		Folder:        req.Body["folder"],
		Name:          req.Body["name"],
		KeepExtension: req.Body["dont-use-ext"] == "false",
		File:          file,
	})
	if err != nil {
		return err
	}

	res.Text(http.StatusOK, u.URLPath())
	return nil
}

func (h *Handler) handleList(res *router.Response, req *router.Request, _ router.Next) error {
	q := req.HTTP().URL.Query()

	limit := defaultListLimit
	if limitStr := q.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = max(1, min(maxListLimit, parsed))
		}
	}

	result, err := h.service.List(req.Context(), dropzone.ListQuery{
		PathPrefix: q.Get("prefix"),
		Limit:      limit,
		Cursor:     q.Get("cursor"),
	})
	if err != nil {
		return err
	}

	return WriteJSON(res, http.StatusOK, result)
}
