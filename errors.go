package dropzone

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("not found")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when authentication fails
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAlreadyExists is returned when a named upload target is taken
	ErrAlreadyExists = errors.New("already exists")
	// ErrTooLarge is returned when a request body exceeds the upload limit
	ErrTooLarge = errors.New("upload too large")
)

// Upload validation failures. Each one matches ErrInvalidInput with errors.Is.
var (
	ErrFileMissing     = fmt.Errorf("%w: file in parameter \"file\" not attached", ErrInvalidInput)
	ErrInvalidFolder   = fmt.Errorf("%w: folder parameter is not valid", ErrInvalidInput)
	ErrInvalidFilename = fmt.Errorf("%w: filename is not valid", ErrInvalidInput)
)
