package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	dropzonehttp "github.com/sagarc03/dropzone/http"
	"github.com/sagarc03/dropzone/keybackend"
	"github.com/sagarc03/dropzone/router"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the dropzone HTTP server.

Routes:
  GET  /upload       upload page
  POST /upload       multipart upload (fields: file, folder, name, dont-use-ext)
  GET  /api/uploads  JSON list of uploads
  GET  /...          stored files; "/" redirects to /upload`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (env: DROPZONE_SERVER_HOST)")
	serveCmd.Flags().Int("port", 3000, "HTTP server port (env: DROPZONE_SERVER_PORT)")
	serveCmd.Flags().Int64("max-upload-size", 100<<20, "maximum upload body in bytes, 0 for no limit")
	serveCmd.Flags().String("ui-path", "", "serve the upload page from this directory instead of the built-in one")
	serveCmd.Flags().Bool("auto-migrate", true, "create missing database tables on start")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	handlerCfg, err := handlerConfig(a)
	if err != nil {
		return err
	}

	handler := dropzonehttp.NewHandler(handlerCfg, a.service)
	server := router.NewServer(a.cfg.Server.Router(), handler.Router())

	err = server.ListenAndServe(ctx, func(addr net.Addr) {
		slog.Info("starting server",
			"addr", addr.String(),
			"storage", a.cfg.Storage.Path,
			"auth", a.cfg.Auth.Enabled,
		)
	})
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func handlerConfig(a *app) (*dropzonehttp.HandlerConfig, error) {
	cfg := a.cfg

	authCfg := dropzonehttp.AuthConfig{Enabled: cfg.Auth.Enabled, Realm: cfg.Auth.Realm}
	if cfg.Auth.Enabled {
		users, err := keybackend.NewUserStore(cfg.Auth.Users)
		if err != nil {
			return nil, fmt.Errorf("load users: %w", err)
		}
		if users.Len() == 0 {
			slog.Warn("basic auth is enabled but no users are configured; every request will be denied")
		}
		authCfg.Store = users
	}

	var ui fs.FS
	if cfg.UI.Path != "" {
		ui = os.DirFS(cfg.UI.Path)
	}

	return &dropzonehttp.HandlerConfig{
		Auth:          authCfg,
		CORS:          cfg.CORS,
		MaxUploadSize: cfg.Server.MaxUploadSize,
		Files:         a.storage.FS(),
		UI:            ui,
	}, nil
}

