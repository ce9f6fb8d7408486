// Package config provides configuration loading and validation for dropzone.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (DROPZONE_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with DROPZONE_ prefix:
//   - server.port → DROPZONE_SERVER_PORT
//   - database.type → DROPZONE_DATABASE_TYPE
//   - auth.enabled → DROPZONE_AUTH_ENABLED
//
// # Configuration Structure
//
// The Config struct contains:
//   - Env: dev (colored logs) or prod (JSON logs)
//   - Server: listen address, upload size cap, connection cap and timeouts
//   - Service: length of generated names and how many to try
//   - Database: type, DSN, table names and auto migration
//   - Storage: directory uploads are written to and served from
//   - UI: optional directory replacing the built-in upload page
//   - Auth: basic auth switch, realm and users (inline or JSON file)
//   - CORS: cross-origin resource sharing settings
//   - Log: level and optional rotated log file
package config
