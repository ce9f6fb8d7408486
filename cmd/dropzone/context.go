package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/sagarc03/dropzone"
	"github.com/sagarc03/dropzone/config"
	"github.com/sagarc03/dropzone/database"
	"github.com/sagarc03/dropzone/filesystem"
)

// app holds the backends shared by the server commands.
type app struct {
	cfg     *config.Config
	db      database.Database
	root    *os.Root
	storage *filesystem.Store
	service *dropzone.UploadService
}

// openApp connects the upload index and opens the storage directory, which
// must already exist.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(cfg.Storage.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage directory does not exist: %s", cfg.Storage.Path)
		}
		return nil, fmt.Errorf("storage directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage path is not a directory: %s", cfg.Storage.Path)
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	slog.Info("connected to database", "type", cfg.Database.Type, "table", cfg.Database.Tables.Uploads)

	root, err := os.OpenRoot(cfg.Storage.Path)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open storage root: %w", err)
	}

	storage := filesystem.NewFileStorage(root)

	service, err := dropzone.NewUploadService(db.GetRepo(), storage, cfg.Service.Upload())
	if err != nil {
		_ = root.Close()
		_ = db.Close()
		return nil, fmt.Errorf("create service: %w", err)
	}

	return &app{
		cfg:     cfg,
		db:      db,
		root:    root,
		storage: storage,
		service: service,
	}, nil
}

func (a *app) Close() {
	if err := a.root.Close(); err != nil {
		slog.Warn("failed to close storage root", "err", err)
	}
	if err := a.db.Close(); err != nil {
		slog.Warn("failed to close database", "err", err)
	}
}
