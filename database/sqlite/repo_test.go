package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sagarc03/dropzone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepo_Get(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, dropzone.ErrNotFound)

	created, _, err := repo.Upsert(ctx, dropzone.FileEntry{
		Path: "shots/abcde.png", Size: 42, ETag: "etag1", ContentType: "image/png",
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "shots/abcde.png")
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "shots/abcde.png", got.Path)
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, "etag1", got.Etag)
	assert.Equal(t, int64(42), got.FileSizeBytes)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestRepo_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	first, inserted, err := repo.Upsert(ctx, dropzone.FileEntry{Path: "a.txt", Size: 1, ETag: "v1", ContentType: "text/plain"})
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second, inserted, err := repo.Upsert(ctx, dropzone.FileEntry{Path: "a.txt", Size: 2, ETag: "v2", ContentType: "text/plain"})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	got, err := repo.Get(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Etag)
	assert.Equal(t, int64(2), got.FileSizeBytes)
}

func TestRepo_List(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	paths := []string{"shots/a", "shots/b", "docs/c", "shots_old/d", "e"}
	for _, p := range paths {
		_, _, err := repo.Upsert(ctx, dropzone.FileEntry{Path: p, ETag: p, ContentType: "text/plain"})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	t.Run("all in creation order", func(t *testing.T) {
		result, err := repo.List(ctx, dropzone.ListQuery{Limit: 10})
		require.NoError(t, err)

		got := make([]string, 0, len(result.Items))
		for _, u := range result.Items {
			got = append(got, u.Path)
		}
		assert.Equal(t, paths, got)
		assert.Empty(t, result.NextCursor)
	})

	t.Run("prefix filter", func(t *testing.T) {
		result, err := repo.List(ctx, dropzone.ListQuery{PathPrefix: "shots/", Limit: 10})
		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
	})

	t.Run("underscore in prefix is literal", func(t *testing.T) {
		result, err := repo.List(ctx, dropzone.ListQuery{PathPrefix: "shots_", Limit: 10})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "shots_old/d", result.Items[0].Path)
	})

	t.Run("pagination", func(t *testing.T) {
		var got []string
		cursor := ""
		pages := 0
		for {
			result, err := repo.List(ctx, dropzone.ListQuery{Limit: 2, Cursor: cursor})
			require.NoError(t, err)
			for _, u := range result.Items {
				got = append(got, u.Path)
			}
			pages++
			if result.NextCursor == "" {
				break
			}
			cursor = result.NextCursor
		}

		assert.Equal(t, paths, got)
		assert.Equal(t, 3, pages)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		_, err := repo.List(ctx, dropzone.ListQuery{Limit: 2, Cursor: "%%%"})
		assert.ErrorIs(t, err, dropzone.ErrInvalidInput)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := repo.List(ctx, dropzone.ListQuery{})
		assert.ErrorIs(t, err, dropzone.ErrInvalidInput)
	})
}

func TestRepo_List_Empty(t *testing.T) {
	repo := setupTestRepo(t)

	result, err := repo.List(context.Background(), dropzone.ListQuery{Limit: 5})

	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.NotNil(t, result.Items)
}

func TestRepo_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	errs := make(chan error, 20)
	for i := range 20 {
		go func() {
			_, _, err := repo.Upsert(ctx, dropzone.FileEntry{Path: fmt.Sprintf("f%02d", i), ETag: "e", ContentType: "text/plain"})
			errs <- err
		}()
	}
	for range 20 {
		require.NoError(t, <-errs)
	}

	result, err := repo.List(ctx, dropzone.ListQuery{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, result.Items, 20)
}
