// Package postgres implements the upload index using PostgreSQL
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/dropzone"
	"github.com/sagarc03/dropzone/database/internal"
)

const selectColumns = `id, path, content_type, etag, file_size_bytes, created_at, updated_at`

type repo struct {
	pool      *pgxpool.Pool
	tableName string // quoted
}

func scanUpload(row pgx.Row) (dropzone.Upload, error) {
	var u dropzone.Upload
	err := row.Scan(&u.ID, &u.Path, &u.ContentType, &u.Etag, &u.FileSizeBytes, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *repo) Get(ctx context.Context, path string) (dropzone.Upload, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE path = $1`, selectColumns, r.tableName)

	u, err := scanUpload(r.pool.QueryRow(ctx, query, path))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dropzone.Upload{}, dropzone.ErrNotFound
		}
		return dropzone.Upload{}, fmt.Errorf("get: %w", err)
	}

	return u, nil
}

func (r *repo) Upsert(ctx context.Context, entry dropzone.FileEntry) (dropzone.Upload, bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (path, content_type, etag, file_size_bytes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (path) DO UPDATE
		SET content_type = EXCLUDED.content_type,
			etag = EXCLUDED.etag,
			file_size_bytes = EXCLUDED.file_size_bytes,
			updated_at = NOW()
		RETURNING %s, (xmax = 0) AS inserted
	`, r.tableName, selectColumns)

	var u dropzone.Upload
	var inserted bool

	err := r.pool.QueryRow(ctx, query, entry.Path, entry.ContentType, entry.ETag, entry.Size).Scan(
		&u.ID, &u.Path, &u.ContentType, &u.Etag, &u.FileSizeBytes, &u.CreatedAt, &u.UpdatedAt, &inserted,
	)
	if err != nil {
		return dropzone.Upload{}, false, fmt.Errorf("upsert: %w", err)
	}

	return u, inserted, nil
}

func (r *repo) List(ctx context.Context, q dropzone.ListQuery) (dropzone.ListResult, error) {
	if q.Limit <= 0 {
		return dropzone.ListResult{}, fmt.Errorf("list: %w: limit must be positive", dropzone.ErrInvalidInput)
	}

	cursor, err := internal.DecodeCursor(q.Cursor)
	if err != nil {
		return dropzone.ListResult{}, fmt.Errorf("list: %w: %w", dropzone.ErrInvalidInput, err)
	}

	escapedPrefix := internal.EscapeLikePattern(q.PathPrefix)

	var query string
	var args []any

	if q.Cursor == "" {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE path LIKE $1 || '%%'
			ORDER BY created_at, path
			LIMIT $2
		`, selectColumns, r.tableName)
		args = []any{escapedPrefix, q.Limit + 1}
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE path LIKE $1 || '%%' AND (created_at, path) > ($2, $3)
			ORDER BY created_at, path
			LIMIT $4
		`, selectColumns, r.tableName)
		args = []any{escapedPrefix, cursor.CreatedAt, cursor.Path, q.Limit + 1}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return dropzone.ListResult{}, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	items := make([]dropzone.Upload, 0, q.Limit)
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return dropzone.ListResult{}, fmt.Errorf("list: scan: %w", err)
		}
		items = append(items, u)
	}

	if err := rows.Err(); err != nil {
		return dropzone.ListResult{}, fmt.Errorf("list: rows: %w", err)
	}

	var nextCursor string
	if len(items) > q.Limit {
		// Cursor points to the last item of the current page
		lastItem := items[q.Limit-1]
		nextCursor = internal.EncodeCursor(lastItem.CreatedAt, lastItem.Path)
		items = items[:q.Limit]
	}

	return dropzone.ListResult{Items: items, NextCursor: nextCursor}, nil
}
