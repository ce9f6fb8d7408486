package dropzone

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Upload is the index entry for a stored file. Path is relative to the
// storage root.
type Upload struct {
	ID            uuid.UUID `json:"id"`
	Path          string    `json:"path"`
	ContentType   string    `json:"content_type"`
	Etag          string    `json:"etag"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// URLPath returns the path the file is served under.
func (u Upload) URLPath() string {
	return path.Join("/", u.Path)
}

// FileEntry describes a file found in storage.
type FileEntry struct {
	Path        string
	Size        int64
	ETag        string
	ContentType string
}

type ListQuery struct {
	PathPrefix string
	Limit      int
	Cursor     string
}

type ListResult struct {
	Items      []Upload `json:"items"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

type SaveResult struct {
	BytesWritten int64
	Etag         string
}

// FileData is an uploaded file held in memory.
type FileData struct {
	Name     string
	MimeType string
	Data     []byte
}

// UploadRequest carries the placement parameters of one upload.
type UploadRequest struct {
	Folder string
	Name   string
	// KeepExtension appends an extension detected from the content, or taken
	// from the uploaded file name, to the stored name.
	KeepExtension bool
	File          *FileData
}

// Tables holds configurable table names for the upload index.
type Tables struct {
	Uploads string `mapstructure:"uploads"`
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// Validate checks that all required table names are set and valid.
func (t Tables) Validate() error {
	if t.Uploads == "" {
		return errors.New("validate tables: uploads table name cannot be empty")
	}

	if !IsValidTableName(t.Uploads) {
		return fmt.Errorf("validate tables: invalid uploads table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", t.Uploads)
	}

	return nil
}

// CredentialStore verifies basic-auth credentials.
type CredentialStore interface {
	// Verify returns an error wrapping ErrUnauthorized when the username is
	// unknown or the password does not match.
	Verify(username, password string) error
}
