package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Ping(t *testing.T) {
	db, _ := setupTestDB(t)
	assert.NoError(t, db.Ping(context.Background()))
}

func TestDB_MigrateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, _ := setupTestDB(t)

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx))
	assert.NoError(t, db.Validate(ctx))
}

func TestDB_ValidateMissingTable(t *testing.T) {
	db, tables := setupTestDB(t)

	err := db.Validate(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("table %s does not exist", tables.Uploads))
}

func TestDB_ValidateMismatchedSchema(t *testing.T) {
	ctx := context.Background()
	db, tables := setupTestDB(t)
	pool := getSharedTestDatabase(t)

	_, err := pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE %s (id UUID PRIMARY KEY, path TEXT NOT NULL, file_size_bytes INTEGER NOT NULL)`, tables.Uploads))
	require.NoError(t, err)

	err = db.Validate(ctx)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "file_size_bytes: expected bigint, got integer")
}

func TestDB_DropTables(t *testing.T) {
	ctx := context.Background()
	db, _ := setupTestDB(t)

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.DropTables(ctx))

	assert.Error(t, db.Validate(ctx))
}
