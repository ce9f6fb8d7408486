package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/dropzone"
)

// DB provides PostgreSQL database operations.
type DB struct {
	pool   *pgxpool.Pool
	tables dropzone.Tables
}

// Connect establishes a connection pool to PostgreSQL.
// Tables should be validated before calling Connect.
func Connect(ctx context.Context, dsn string, tables dropzone.Tables) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return &DB{
		pool:   pool,
		tables: tables,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Migrate runs database migrations to create required tables.
func (d *DB) Migrate(ctx context.Context) error {
	if err := migrate(ctx, d.pool, d.tables); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// DropTables removes every table created by Migrate.
func (d *DB) DropTables(ctx context.Context) error {
	return dropTables(ctx, d.pool, d.tables)
}

// Validate checks that the database schema matches expected structure.
func (d *DB) Validate(ctx context.Context) error {
	return validateSchema(ctx, d.pool, d.tables)
}

// GetRepo returns the upload index repository.
func (d *DB) GetRepo() dropzone.UploadRepo {
	return &repo{pool: d.pool, tableName: quoteIdentifier(d.tables.Uploads)}
}

// Close closes the database connection pool.
func (d *DB) Close() error {
	d.pool.Close()
	return nil
}
