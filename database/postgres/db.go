package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/dropzone"
)

type columnInfo struct {
	dataType   string
	isNullable bool
}

var uploadsTableSchema = map[string]columnInfo{
	"id":              {"uuid", false},
	"path":            {"text", false},
	"content_type":    {"text", false},
	"etag":            {"text", false},
	"file_size_bytes": {"bigint", false},
	"created_at":      {"timestamp with time zone", false},
	"updated_at":      {"timestamp with time zone", false},
}

func validateSchema(ctx context.Context, pool *pgxpool.Pool, tables dropzone.Tables) error {
	if err := validateTableSchema(ctx, pool, tables.Uploads, uploadsTableSchema); err != nil {
		return fmt.Errorf("validate schema %s: %w", tables.Uploads, err)
	}
	return nil
}

func validateTableSchema(ctx context.Context, pool *pgxpool.Pool, tableName string, expectedSchema map[string]columnInfo) error {
	if !dropzone.IsValidTableName(tableName) {
		return fmt.Errorf("validate table schema: invalid table name: %s", tableName)
	}

	exists, err := tableExists(ctx, pool, tableName)
	if err != nil {
		return fmt.Errorf("validate table schema: %w", err)
	}

	if !exists {
		return fmt.Errorf("validate table schema: table %s does not exist", tableName)
	}

	rows, err := pool.Query(ctx, `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`, tableName)
	if err != nil {
		return fmt.Errorf("validate table schema: query columns: %w", err)
	}
	defer rows.Close()

	actualColumns := make(map[string]columnInfo)
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return fmt.Errorf("validate table schema: scan column: %w", err)
		}
		actualColumns[name] = columnInfo{
			dataType:   strings.ToLower(dataType),
			isNullable: nullable == "YES",
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

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = current_schema()
			AND table_name = $1
		)
	`, tableName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return exists, nil
}
