package clientcli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sagarc03/dropzone/clientcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Validate(t *testing.T) {
	tests := []struct {
		name    string
		srv     clientcli.Server
		wantErr error
	}{
		{name: "open server", srv: clientcli.Server{Endpoint: "http://localhost:3000"}},
		{name: "with credentials", srv: clientcli.Server{Endpoint: "https://drop.example.com", Username: "alice", Password: "secret"}},
		{name: "no scheme", srv: clientcli.Server{Endpoint: "localhost:3000"}, wantErr: clientcli.ErrInvalidEndpoint},
		{name: "ftp", srv: clientcli.Server{Endpoint: "ftp://drop.example.com"}, wantErr: clientcli.ErrInvalidEndpoint},
		{name: "empty", srv: clientcli.Server{}, wantErr: clientcli.ErrInvalidEndpoint},
		{name: "username alone", srv: clientcli.Server{Endpoint: "http://x", Username: "alice"}, wantErr: clientcli.ErrPasswordRequired},
		{name: "password alone", srv: clientcli.Server{Endpoint: "http://x", Password: "secret"}, wantErr: clientcli.ErrUsernameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.srv.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestServers_Lookup(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		_, _, err := (&clientcli.Servers{}).Lookup("")
		assert.ErrorIs(t, err, clientcli.ErrNoServer)
	})

	t.Run("only server is used without a current one", func(t *testing.T) {
		s := &clientcli.Servers{Entries: map[string]clientcli.Server{"home": {Endpoint: "http://home"}}}
		srv, name, err := s.Lookup("")
		require.NoError(t, err)
		assert.Equal(t, "home", name)
		assert.Equal(t, "http://home", srv.Endpoint)
	})

	t.Run("several servers need a current one", func(t *testing.T) {
		s := &clientcli.Servers{Entries: map[string]clientcli.Server{"a": {}, "b": {}}}
		_, _, err := s.Lookup("")
		assert.ErrorIs(t, err, clientcli.ErrNoServer)

		s.Current = "b"
		_, name, err := s.Lookup("")
		require.NoError(t, err)
		assert.Equal(t, "b", name)
	})

	t.Run("explicit name wins over current", func(t *testing.T) {
		s := &clientcli.Servers{Current: "a", Entries: map[string]clientcli.Server{"a": {}, "b": {Endpoint: "http://b"}}}
		srv, name, err := s.Lookup("b")
		require.NoError(t, err)
		assert.Equal(t, "b", name)
		assert.Equal(t, "http://b", srv.Endpoint)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := testServers().Lookup("staging")
		assert.ErrorIs(t, err, clientcli.ErrServerNotFound)
		assert.Contains(t, err.Error(), "staging")
	})
}

func TestServers_PutAndRemove(t *testing.T) {
	s := &clientcli.Servers{}

	require.NoError(t, s.Put("home", clientcli.Server{Endpoint: "http://home"}, false))
	assert.Equal(t, "home", s.Current, "first server becomes current")

	require.NoError(t, s.Put("work", clientcli.Server{Endpoint: "https://work", Username: "alice", Password: "pw"}, false))
	assert.Equal(t, "home", s.Current)

	require.NoError(t, s.Put("work", clientcli.Server{Endpoint: "https://work2"}, true))
	assert.Equal(t, "work", s.Current)
	assert.Equal(t, "https://work2", s.Entries["work"].Endpoint, "put replaces")
	assert.Equal(t, []string{"home", "work"}, s.Names())

	assert.ErrorIs(t, s.Put("", clientcli.Server{Endpoint: "http://x"}, false), clientcli.ErrServerNameRequired)
	assert.ErrorIs(t, s.Put("bad", clientcli.Server{Endpoint: "nope"}, false), clientcli.ErrInvalidEndpoint)
	assert.NotContains(t, s.Entries, "bad")

	require.NoError(t, s.Remove("work"))
	assert.Empty(t, s.Current, "removing the current server clears it")
	assert.ErrorIs(t, s.Remove("work"), clientcli.ErrServerNotFound)
}

func TestServers_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "servers.yaml")

	s := &clientcli.Servers{}
	require.NoError(t, s.Put("home", clientcli.Server{Endpoint: "http://home:3000"}, false))
	require.NoError(t, s.Put("work", clientcli.Server{Endpoint: "https://drop.example.com", Username: "alice", Password: "secret"}, true))
	require.NoError(t, s.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")

	loaded, err := clientcli.LoadServers(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)

	srv, name, err := loaded.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "work", name)
	assert.Equal(t, clientcli.Config{Endpoint: "https://drop.example.com", Username: "alice", Password: "secret"}, srv.Config())
}

func TestLoadServers(t *testing.T) {
	t.Run("missing file is empty", func(t *testing.T) {
		s, err := clientcli.LoadServers(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Empty(t, s.Entries)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("servers: [unclosed"), 0o600))

		_, err := clientcli.LoadServers(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse servers file")
	})

	t.Run("hand written file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "servers.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`current: work
servers:
  work:
    endpoint: https://drop.example.com
    username: alice
    password: secret
`), 0o600))

		s, err := clientcli.LoadServers(path)
		require.NoError(t, err)
		srv, _, err := s.Lookup("")
		require.NoError(t, err)
		assert.Equal(t, "alice", srv.Username)
	})
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := &clientcli.Config{}
	assert.Equal(t, clientcli.DefaultEndpoint, cfg.WithDefaults().Endpoint)
	assert.Empty(t, cfg.Endpoint, "original is not mutated")

	cfg = &clientcli.Config{Endpoint: "https://drop.example.com"}
	assert.Equal(t, "https://drop.example.com", cfg.WithDefaults().Endpoint)
}

func TestConfig_Overlay(t *testing.T) {
	saved := clientcli.Config{Endpoint: "http://saved", Username: "saved-user", Password: "saved-pass"}

	got := saved.
		Overlay(clientcli.Config{Username: "env-user"}).
		Overlay(clientcli.Config{Endpoint: "http://flag"})

	assert.Equal(t, clientcli.Config{Endpoint: "http://flag", Username: "env-user", Password: "saved-pass"}, got)
}

func TestEnvConfig(t *testing.T) {
	t.Setenv(clientcli.EnvEndpoint, "http://env:3000")
	t.Setenv(clientcli.EnvUsername, "alice")
	t.Setenv(clientcli.EnvPassword, "secret")

	assert.Equal(t, clientcli.Config{Endpoint: "http://env:3000", Username: "alice", Password: "secret"}, clientcli.EnvConfig())
}
