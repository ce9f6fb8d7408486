package clientcli

import "errors"

// Errors for the saved server list.
var (
	ErrServerNotFound     = errors.New("server not found")
	ErrNoServer           = errors.New("no server selected")
	ErrServerNameRequired = errors.New("server name is required")
	ErrInvalidEndpoint    = errors.New("endpoint must be an http or https URL")
	ErrUsernameRequired   = errors.New("username is required with a password")
	ErrPasswordRequired   = errors.New("password is required with a username")
)

// ErrConfigRequired is returned by New for a nil config.
var ErrConfigRequired = errors.New("config is required")

// ErrEmptyPath is returned when no local or remote path is given.
var ErrEmptyPath = errors.New("path is required")
