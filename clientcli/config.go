package clientcli

import "os"

// Environment variables read by the client.
const (
	EnvEndpoint    = "DROPZONE_ENDPOINT"
	EnvUsername    = "DROPZONE_USERNAME"
	EnvPassword    = "DROPZONE_PASSWORD"
	EnvServer      = "DROPZONE_SERVER"
	EnvServersFile = "DROPZONE_SERVERS_FILE"
)

// Config holds the resolved settings for talking to one server.
type Config struct {
	Endpoint string
	Username string
	Password string
}

// WithDefaults returns a copy with DefaultEndpoint filled in.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &cfg
}

// Overlay returns c with every non-empty field of o applied on top.
func (c Config) Overlay(o Config) Config {
	if o.Endpoint != "" {
		c.Endpoint = o.Endpoint
	}
	if o.Username != "" {
		c.Username = o.Username
	}
	if o.Password != "" {
		c.Password = o.Password
	}
	return c
}

// EnvConfig reads DROPZONE_ENDPOINT, DROPZONE_USERNAME and DROPZONE_PASSWORD.
func EnvConfig() Config {
	return Config{
		Endpoint: os.Getenv(EnvEndpoint),
		Username: os.Getenv(EnvUsername),
		Password: os.Getenv(EnvPassword),
	}
}
