package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/dropzone"
)

func quoteIdentifier(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

type tableMigration struct {
	tableName string
	up        func(ctx context.Context, pool *pgxpool.Pool) error
	down      func(ctx context.Context, pool *pgxpool.Pool) error
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

func migrate(ctx context.Context, pool *pgxpool.Pool, tables dropzone.Tables) error {
	for _, migration := range getTableMigrations(tables) {
		if err := migration.up(ctx, pool); err != nil {
			return fmt.Errorf("migrate up %s: %w", migration.tableName, err)
		}
	}
	return nil
}

func dropTables(ctx context.Context, pool *pgxpool.Pool, tables dropzone.Tables) error {
	migrations := getTableMigrations(tables)

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if err := migration.down(ctx, pool); err != nil {
			return fmt.Errorf("migrate down %s: %w", migration.tableName, err)
		}
	}

	return nil
}

func createUploadsTable(tableName string) func(context.Context, *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		quotedTable := quoteIdentifier(tableName)
		indexList := quoteIdentifier(fmt.Sprintf("idx_%s_list", tableName))

		sql := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				path TEXT NOT NULL UNIQUE,
				content_type TEXT NOT NULL,
				etag TEXT NOT NULL,
				file_size_bytes BIGINT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS %s
			ON %s (created_at, path);
		`, quotedTable, indexList, quotedTable)

		if _, err := pool.Exec(ctx, sql); err != nil {
			return fmt.Errorf("create uploads table: %w", err)
		}
		return nil
	}
}

func dropTable(tableName string) func(context.Context, *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", quoteIdentifier(tableName)))
		return err
	}
}
