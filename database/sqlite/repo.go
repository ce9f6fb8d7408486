// Package sqlite implements the upload index using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sagarc03/dropzone"
	"github.com/sagarc03/dropzone/database/internal"
)

// timeFormat is fixed width so text ordering matches time ordering.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

type repo struct {
	db        *sql.DB
	tableName string // quoted
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUpload(s scanner) (dropzone.Upload, error) {
	var u dropzone.Upload
	var idStr, createdAt, updatedAt string

	if err := s.Scan(&idStr, &u.Path, &u.ContentType, &u.Etag, &u.FileSizeBytes, &createdAt, &updatedAt); err != nil {
		return dropzone.Upload{}, err
	}

	var err error
	if u.ID, err = uuid.Parse(idStr); err != nil {
		return dropzone.Upload{}, fmt.Errorf("parse uuid: %w", err)
	}
	if u.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return dropzone.Upload{}, fmt.Errorf("parse created_at: %w", err)
	}
	if u.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return dropzone.Upload{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return u, nil
}

const selectColumns = `id, path, content_type, etag, file_size_bytes, created_at, updated_at`

func (r *repo) Get(ctx context.Context, path string) (dropzone.Upload, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE path = ?`, selectColumns, r.tableName) //nolint:gosec // G201: table name is validated

	u, err := scanUpload(r.db.QueryRowContext(ctx, query, path))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dropzone.Upload{}, dropzone.ErrNotFound
		}
		return dropzone.Upload{}, fmt.Errorf("get: %w", err)
	}

	return u, nil
}

func (r *repo) Upsert(ctx context.Context, entry dropzone.FileEntry) (dropzone.Upload, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dropzone.Upload{}, false, fmt.Errorf("upsert: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existingID, createdAt string
	checkQuery := fmt.Sprintf(`SELECT id, created_at FROM %s WHERE path = ?`, r.tableName) //nolint:gosec // table name is validated
	err = tx.QueryRowContext(ctx, checkQuery, entry.Path).Scan(&existingID, &createdAt)
	isInsert := errors.Is(err, sql.ErrNoRows)
	if err != nil && !isInsert {
		return dropzone.Upload{}, false, fmt.Errorf("upsert: check existing: %w", err)
	}

	now := formatTime(time.Now())

	if isInsert {
		existingID = uuid.New().String()
		createdAt = now
		insertQuery := fmt.Sprintf( //nolint:gosec // G201: table name is validated
			`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)`, r.tableName, selectColumns)

		if _, err = tx.ExecContext(ctx, insertQuery,
			existingID, entry.Path, entry.ContentType, entry.ETag, entry.Size, createdAt, now,
		); err != nil {
			return dropzone.Upload{}, false, fmt.Errorf("upsert: insert: %w", err)
		}
	} else {
		updateQuery := fmt.Sprintf( //nolint:gosec // G201: table name is validated
			`UPDATE %s
			SET content_type = ?, etag = ?, file_size_bytes = ?, updated_at = ?
			WHERE path = ?`, r.tableName)

		if _, err = tx.ExecContext(ctx, updateQuery,
			entry.ContentType, entry.ETag, entry.Size, now, entry.Path,
		); err != nil {
			return dropzone.Upload{}, false, fmt.Errorf("upsert: update: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return dropzone.Upload{}, false, fmt.Errorf("upsert: commit: %w", err)
	}

	u := dropzone.Upload{
		Path:          entry.Path,
		ContentType:   entry.ContentType,
		Etag:          entry.ETag,
		FileSizeBytes: entry.Size,
	}
	u.ID, _ = uuid.Parse(existingID)
	u.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	u.UpdatedAt, _ = time.Parse(timeFormat, now)

	return u, isInsert, nil
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
		query = fmt.Sprintf( //nolint:gosec // G201: table name is validated
			`SELECT %s
			FROM %s
			WHERE path LIKE ? || '%%' ESCAPE '\'
			ORDER BY created_at, path
			LIMIT ?
		`, selectColumns, r.tableName)
		args = []any{escapedPrefix, q.Limit + 1}
	} else {
		query = fmt.Sprintf( //nolint:gosec // G201: table name is validated
			`SELECT %s
			FROM %s
			WHERE path LIKE ? || '%%' ESCAPE '\' AND (created_at, path) > (?, ?)
			ORDER BY created_at, path
			LIMIT ?
		`, selectColumns, r.tableName)
		args = []any{escapedPrefix, formatTime(cursor.CreatedAt), cursor.Path, q.Limit + 1}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return dropzone.ListResult{}, fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]dropzone.Upload, 0, q.Limit)
	for rows.Next() {
		u, scanErr := scanUpload(rows)
		if scanErr != nil {
			return dropzone.ListResult{}, fmt.Errorf("list: scan: %w", scanErr)
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
