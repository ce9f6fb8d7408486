package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/dropzone"
	"github.com/sagarc03/dropzone/database"
	dropzonehttp "github.com/sagarc03/dropzone/http"
	"github.com/sagarc03/dropzone/keybackend"
	"github.com/sagarc03/dropzone/router"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for dropzone.
type Config struct {
	Env      string                  `mapstructure:"env" validate:"required,oneof=dev prod"`
	Server   ServerConfig            `mapstructure:"server"`
	Service  ServiceConfig           `mapstructure:"service"`
	Database database.Config         `mapstructure:"database"`
	Storage  StorageConfig           `mapstructure:"storage"`
	UI       UIConfig                `mapstructure:"ui"`
	Auth     AuthConfig              `mapstructure:"auth"`
	CORS     dropzonehttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig               `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	MaxUploadSize   int64         `mapstructure:"max_upload_size" validate:"min=0"`
	MaxConnections  int           `mapstructure:"max_connections" validate:"min=0"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"min=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Router converts s into the listener configuration.
func (s ServerConfig) Router() router.ServerConfig {
	return router.ServerConfig{
		Addr:            s.Addr(),
		MaxConnections:  s.MaxConnections,
		ReadTimeout:     s.ReadTimeout,
		WriteTimeout:    s.WriteTimeout,
		IdleTimeout:     s.IdleTimeout,
		ShutdownTimeout: s.ShutdownTimeout,
	}
}

// ServiceConfig holds upload naming configuration.
type ServiceConfig struct {
	RandomNameLength int `mapstructure:"random_name_length" validate:"min=1,max=64"`
	MaxNameAttempts  int `mapstructure:"max_name_attempts" validate:"min=1"`
}

// Upload converts s into the service configuration.
func (s ServiceConfig) Upload() dropzone.ServiceConfig {
	return dropzone.ServiceConfig{
		RandomNameLength: s.RandomNameLength,
		MaxNameAttempts:  s.MaxNameAttempts,
	}
}

// StorageConfig holds file storage configuration.
type StorageConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// UIConfig holds upload page configuration.
type UIConfig struct {
	// Path serves the upload page from a directory instead of the built-in one.
	Path string `mapstructure:"path"`
}

// AuthConfig holds basic auth configuration.
type AuthConfig struct {
	Enabled bool                   `mapstructure:"enabled"`
	Realm   string                 `mapstructure:"realm" validate:"required_if=Enabled true"`
	Users   keybackend.UsersConfig `mapstructure:"users"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"min=0"`
	Compress   bool   `mapstructure:"compress"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":         "database.type",
	"db-dsn":          "database.dsn",
	"storage-path":    "storage.path",
	"ui-path":         "ui.path",
	"host":            "server.host",
	"port":            "server.port",
	"max-upload-size": "server.max_upload_size",
	"auto-migrate":    "database.auto_migrate",
	"log-level":       "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance. Every key
// gets a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.max_upload_size", 100<<20)
	v.SetDefault("server.max_connections", 0) // 0 means no limit
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("service.random_name_length", 5)
	v.SetDefault("service.max_name_attempts", 32)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "dropzone.db")
	v.SetDefault("database.tables.uploads", "dropzone_uploads")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("storage.path", "./data")
	v.SetDefault("ui.path", "")

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.realm", "dropzone")
	v.SetDefault("auth.users.file", "")

	v.SetDefault("cors.enabled", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", false)
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("DROPZONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.Database.Tables.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
