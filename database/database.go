package database

import (
	"context"
	"fmt"

	"github.com/sagarc03/dropzone"
	"github.com/sagarc03/dropzone/database/postgres"
	"github.com/sagarc03/dropzone/database/sqlite"
)

// Config holds the configuration for connecting to the upload index.
type Config struct {
	// Type specifies the database type: "sqlite" or "postgres"
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`
	// DSN is the data source name (connection string)
	DSN string `mapstructure:"dsn" validate:"required"`
	// Tables holds the table names to use
	Tables dropzone.Tables `mapstructure:"tables"`
	// AutoMigrate creates missing tables on Open
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// Database is a connected upload index backend.
type Database interface {
	// Ping verifies the database connection is alive.
	Ping(ctx context.Context) error
	// Migrate creates the required tables and indexes if missing.
	Migrate(ctx context.Context) error
	// Validate checks that the existing schema matches what the repo expects.
	Validate(ctx context.Context) error
	// GetRepo returns the upload index repository.
	GetRepo() dropzone.UploadRepo
	// Close releases the connection.
	Close() error
}

// Connect opens the configured backend. It validates the table names but
// does not run migrations; call Migrate or Validate as needed.
func Connect(ctx context.Context, cfg Config) (Database, error) {
	if err := cfg.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	switch cfg.Type {
	case "sqlite":
		db, err := sqlite.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.DSN, cfg.Tables)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("connect: unsupported database type: %q", cfg.Type)
	}
}

// Open connects to the backend and prepares the schema: it migrates when
// cfg.AutoMigrate is set and validates either way.
func Open(ctx context.Context, cfg Config) (Database, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Type, err)
	}

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate %s: %w", cfg.Type, err)
		}
	}

	if err := db.Validate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("validate %s: %w", cfg.Type, err)
	}

	return db, nil
}
