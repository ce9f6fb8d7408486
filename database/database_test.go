package database_test

import (
	"context"
	"testing"

	"github.com/sagarc03/dropzone"
	"github.com/sagarc03/dropzone/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(tableName string) database.Config {
	return database.Config{
		Type:   "sqlite",
		DSN:    ":memory:",
		Tables: dropzone.Tables{Uploads: tableName},
	}
}

func setupTestDB(t *testing.T, tableName string) database.Database {
	t.Helper()

	db, err := database.Connect(context.Background(), newTestConfig(tableName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func TestConnect_SQLite(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t, "uploads")

	assert.NoError(t, db.Ping(context.Background()))
}

func TestConnect_InvalidType(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig("uploads")
	cfg.Type = "mysql"

	db, err := database.Connect(context.Background(), cfg)

	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestConnect_InvalidTables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		table string
	}{
		{"empty", ""},
		{"uppercase", "Uploads"},
		{"injection", "uploads; DROP TABLE x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := database.Connect(context.Background(), newTestConfig(tt.table))
			assert.Error(t, err)
		})
	}
}

func TestDatabase_MigrateAndValidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t, "migrate_test")

	assert.Error(t, db.Validate(ctx), "validate should fail without tables")

	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx), "migrate should be idempotent")
	assert.NoError(t, db.Validate(ctx))
}

func TestDatabase_GetRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDB(t, "getrepo_test")
	require.NoError(t, db.Migrate(ctx))

	repo := db.GetRepo()
	require.NotNil(t, repo)

	u, inserted, err := repo.Upsert(ctx, dropzone.FileEntry{
		Path: "shots/abcde.png", Size: 100, ETag: "abc123", ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, "shots/abcde.png", u.Path)

	result, err := repo.List(ctx, dropzone.ListQuery{PathPrefix: "shots/", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
}

func TestDatabase_Close(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := database.Connect(ctx, newTestConfig("close_test"))
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(ctx), "ping should fail after close")
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("auto migrate", func(t *testing.T) {
		cfg := newTestConfig("open_test")
		cfg.AutoMigrate = true

		db, err := database.Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		_, err = db.GetRepo().List(ctx, dropzone.ListQuery{Limit: 1})
		assert.NoError(t, err)
	})

	t.Run("missing schema without migrate", func(t *testing.T) {
		db, err := database.Open(ctx, newTestConfig("open_test"))

		require.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), "validate sqlite")
	})
}
