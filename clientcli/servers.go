package clientcli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the server contacted when nothing else is configured.
const DefaultEndpoint = "http://localhost:3000"

// Server is one saved dropzone server. Username and Password are the basic
// auth credentials for its upload routes; both are empty for open servers.
type Server struct {
	Endpoint string `yaml:"endpoint"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Validate checks the endpoint URL and that credentials come in pairs.
func (s Server) Validate() error {
	u, err := url.Parse(s.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint %q: %w", s.Endpoint, ErrInvalidEndpoint)
	}
	if s.Username != "" && s.Password == "" {
		return ErrPasswordRequired
	}
	if s.Username == "" && s.Password != "" {
		return ErrUsernameRequired
	}
	return nil
}

// Config returns the client settings for s.
func (s Server) Config() Config {
	return Config{Endpoint: s.Endpoint, Username: s.Username, Password: s.Password}
}

// Servers is the saved server list of ~/.dropzone/servers.yaml:
//
//	current: work
//	servers:
//	  work:
//	    endpoint: https://drop.example.com
//	    username: alice
//	    password: secret
type Servers struct {
	Current string            `yaml:"current,omitempty"`
	Entries map[string]Server `yaml:"servers"`
}

// Lookup returns the server called name. An empty name selects the current
// server, or the only one when exactly one is saved.
func (s *Servers) Lookup(name string) (Server, string, error) {
	if name == "" {
		name = s.Current
	}
	if name == "" {
		if len(s.Entries) != 1 {
			return Server{}, "", ErrNoServer
		}
		for only := range s.Entries {
			name = only
		}
	}

	srv, ok := s.Entries[name]
	if !ok {
		return Server{}, "", fmt.Errorf("%w: %s", ErrServerNotFound, name)
	}
	return srv, name, nil
}

// Put saves srv under name, replacing any previous entry. The first saved
// server becomes current, as does any server put with makeCurrent.
func (s *Servers) Put(name string, srv Server, makeCurrent bool) error {
	if name == "" {
		return ErrServerNameRequired
	}
	if err := srv.Validate(); err != nil {
		return err
	}
	if s.Entries == nil {
		s.Entries = make(map[string]Server)
	}
	s.Entries[name] = srv
	if makeCurrent || len(s.Entries) == 1 {
		s.Current = name
	}
	return nil
}

// Remove deletes name. Removing the current server leaves none current.
func (s *Servers) Remove(name string) error {
	if _, ok := s.Entries[name]; !ok {
		return fmt.Errorf("%w: %s", ErrServerNotFound, name)
	}
	delete(s.Entries, name)
	if s.Current == name {
		s.Current = ""
	}
	return nil
}

// Names returns the saved server names in sorted order.
func (s *Servers) Names() []string {
	names := make([]string, 0, len(s.Entries))
	for name := range s.Entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LoadServers reads the server list at path. A missing file is an empty list.
func LoadServers(path string) (*Servers, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided config file
	if os.IsNotExist(err) {
		return &Servers{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read servers file: %w", err)
	}

	var s Servers
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse servers file: %w", err)
	}
	return &s, nil
}

// Save writes the list to path with owner-only permissions, replacing the
// file by rename.
func (s *Servers) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal servers: %w", err)
	}

	dir := filepath.Dir(filepath.Clean(path))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".servers-*.yaml")
	if err != nil {
		return fmt.Errorf("write servers file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write servers file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write servers file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write servers file: %w", err)
	}
	return nil
}

// DefaultServersPath returns ~/.dropzone/servers.yaml, or "" when the home
// directory is unknown.
func DefaultServersPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dropzone", "servers.yaml")
}
