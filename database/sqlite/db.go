package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sagarc03/dropzone"
)

type columnInfo struct {
	dataType   string
	isNullable bool
}

var uploadsTableSchema = map[string]columnInfo{
	"id":              {"text", false},
	"path":            {"text", false},
	"content_type":    {"text", false},
	"etag":            {"text", false},
	"file_size_bytes": {"integer", false},
	"created_at":      {"text", false},
	"updated_at":      {"text", false},
}

func validateSchema(ctx context.Context, db *sql.DB, tables dropzone.Tables) error {
	if err := validateTableSchema(ctx, db, tables.Uploads, uploadsTableSchema); err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.Uploads, err)
	}
	return nil
}

func validateTableSchema(ctx context.Context, db *sql.DB, tableName string, expectedSchema map[string]columnInfo) error {
	if !dropzone.IsValidTableName(tableName) {
		return fmt.Errorf("validate table schema: invalid table name: %s", tableName)
	}

	exists, err := tableExists(ctx, db, tableName)
	if err != nil {
		return fmt.Errorf("validate table schema: %w", err)
	}

	if !exists {
		return fmt.Errorf("validate table schema: table %s does not exist", tableName)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(tableName)))
	if err != nil {
		return fmt.Errorf("validate table schema: query columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	actualColumns := make(map[string]columnInfo)
	for rows.Next() {
		var cid, notNull, pk int
		var name, dataType string
		var dfltValue sql.NullString

		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("validate table schema: scan column: %w", err)
		}
		actualColumns[name] = columnInfo{
			dataType:   strings.ToLower(dataType),
			isNullable: notNull == 0,
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("validate table schema: rows error: %w", err)
	}

	var missing, mismatched []string

	for colName, expected := range expectedSchema {
		actual, ok := actualColumns[colName]
		if !ok {
			missing = append(missing, colName)
			continue
		}

		if actual.dataType != expected.dataType {
			mismatched = append(mismatched,
				fmt.Sprintf("%s: expected %s, got %s", colName, expected.dataType, actual.dataType))
		}

		if actual.isNullable != expected.isNullable {
			mismatched = append(mismatched,
				fmt.Sprintf("%s: expected nullable=%v, got nullable=%v", colName, expected.isNullable, actual.isNullable))
		}
	}

	if len(missing) == 0 && len(mismatched) == 0 {
		return nil
	}

	var errMsg strings.Builder
	fmt.Fprintf(&errMsg, "table %s schema validation failed:\n", tableName)

	if len(missing) > 0 {
		fmt.Fprintf(&errMsg, "  missing columns: %s\n", strings.Join(missing, ", "))
	}

	if len(mismatched) > 0 {
		fmt.Fprintf(&errMsg, "  mismatched columns:\n")
		for _, msg := range mismatched {
			fmt.Fprintf(&errMsg, "    - %s\n", msg)
		}
	}

	return errors.New(errMsg.String())
}

func tableExists(ctx context.Context, db *sql.DB, tableName string) (bool, error) {
	var name string
	err := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, tableName).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return true, nil
}
