package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/dropzone"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

type tableMigration struct {
	tableName string
	up        func(ctx context.Context, db *sql.DB) error
	down      func(ctx context.Context, db *sql.DB) error
}

func getTableMigrations(tables dropzone.Tables) []tableMigration {
	return []tableMigration{
		{
			tableName: tables.Uploads,
			up:        createUploadsTable(tables.Uploads),
			down:      dropTable(tables.Uploads),
		},
	}
}

func migrate(ctx context.Context, db *sql.DB, tables dropzone.Tables) error {
	for _, migration := range getTableMigrations(tables) {
		if err := migration.up(ctx, db); err != nil {
			return fmt.Errorf("migrate up %s: %w", migration.tableName, err)
		}
	}
	return nil
}

func dropTables(ctx context.Context, db *sql.DB, tables dropzone.Tables) error {
	migrations := getTableMigrations(tables)

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if err := migration.down(ctx, db); err != nil {
			return fmt.Errorf("migrate down %s: %w", migration.tableName, err)
		}
	}

	return nil
}

func createUploadsTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		quotedTable := quoteIdentifier(tableName)
		indexList := quoteIdentifier(fmt.Sprintf("idx_%s_list", tableName))

		createTableSQL := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT NOT NULL PRIMARY KEY,
				path TEXT NOT NULL UNIQUE,
				content_type TEXT NOT NULL,
				etag TEXT NOT NULL,
				file_size_bytes INTEGER NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)
		`, quotedTable)

		if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
			return fmt.Errorf("create table: %w", err)
		}

		indexSQL := fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s ON %s (created_at, path)
		`, indexList, quotedTable)

		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("create index list: %w", err)
		}

		return nil
	}
}

func dropTable(tableName string) func(context.Context, *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdentifier(tableName)))
		return err
	}
}
