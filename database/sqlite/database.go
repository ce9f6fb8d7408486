package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/dropzone"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB provides SQLite database operations.
type DB struct {
	db     *sql.DB
	tables dropzone.Tables
}

// Connect opens a SQLite database. Tables should be validated before
// calling Connect.
func Connect(ctx context.Context, dsn string, tables dropzone.Tables) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// ":memory:" databases exist per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	return &DB{
		db:     db,
		tables: tables,
	}, nil
}

// Ping verifies the database connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Migrate runs database migrations to create required tables.
func (d *DB) Migrate(ctx context.Context) error {
	if err := migrate(ctx, d.db, d.tables); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// DropTables removes every table created by Migrate.
func (d *DB) DropTables(ctx context.Context) error {
	return dropTables(ctx, d.db, d.tables)
}

// Validate checks that the database schema matches expected structure.
func (d *DB) Validate(ctx context.Context) error {
	return validateSchema(ctx, d.db, d.tables)
}

// GetRepo returns the upload index repository.
func (d *DB) GetRepo() dropzone.UploadRepo {
	return &repo{db: d.db, tableName: quoteIdentifier(d.tables.Uploads)}
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
