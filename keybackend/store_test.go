package keybackend_test

import (
	"testing"

	"github.com/sagarc03/dropzone/keybackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserStore_InlineOnly(t *testing.T) {
	t.Parallel()

	store, err := keybackend.NewUserStore(keybackend.UsersConfig{
		Inline: []keybackend.User{
			{Username: "alice", Password: "a"},
			{Username: "bob", Password: "b"},
		},
	})
	require.NoError(t, err)

	assert.NoError(t, store.Verify("alice", "a"))
	assert.NoError(t, store.Verify("bob", "b"))
}

func TestNewUserStore_FileOnly(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, `[{"username": "carol", "password": "c"}]`)

	store, err := keybackend.NewUserStore(keybackend.UsersConfig{File: path})
	require.NoError(t, err)

	assert.NoError(t, store.Verify("carol", "c"))
}

func TestNewUserStore_FileOverridesInline(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, `[{"username": "dup", "password": "file_wins"}]`)

	store, err := keybackend.NewUserStore(keybackend.UsersConfig{
		Inline: []keybackend.User{
			{Username: "dup", Password: "inline_loses"},
			{Username: "inline", Password: "i"},
		},
		File: path,
	})
	require.NoError(t, err)

	assert.NoError(t, store.Verify("dup", "file_wins"))
	assert.Error(t, store.Verify("dup", "inline_loses"))
	assert.NoError(t, store.Verify("inline", "i"))
	assert.Equal(t, 2, store.Len())
}

func TestNewUserStore_SkipsEmptyInline(t *testing.T) {
	t.Parallel()

	store, err := keybackend.NewUserStore(keybackend.UsersConfig{
		Inline: []keybackend.User{
			{Username: "", Password: "p"},
			{Username: "u", Password: ""},
			{Username: "valid", Password: "v"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, store.Len())
	assert.Error(t, store.Verify("", "p"))
}

func TestNewUserStore_EmptyConfig(t *testing.T) {
	t.Parallel()

	store, err := keybackend.NewUserStore(keybackend.UsersConfig{})
	require.NoError(t, err)

	assert.Error(t, store.Verify("anyone", "anything"))
}

func TestNewUserStore_FileErrors(t *testing.T) {
	t.Parallel()

	_, err := keybackend.NewUserStore(keybackend.UsersConfig{File: "/nonexistent/users.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read users file")

	_, err = keybackend.NewUserStore(keybackend.UsersConfig{File: writeTestFile(t, "nope")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse users file")
}
