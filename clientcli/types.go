package clientcli

import (
	"time"

	"github.com/google/uuid"
)

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath string
	// Folder is the server-side folder the file is placed in. Empty means
	// the storage root.
	Folder string
	// Name is the requested file name. Empty lets the server generate one.
	Name string
	// DropExtension stores the file without a detected extension.
	DropExtension bool
	Recursive     bool
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath string `json:"local_path"`
	// RemotePath is the path the server answered with, e.g. "/shots/abcde.png".
	RemotePath string `json:"remote_path"`
	URL        string `json:"url"`
	Size       int64  `json:"size_bytes"`
	Err        error  `json:"-"` // nil on success
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	// RemotePath is a stored path such as "/shots/abcde.png" or the full URL
	// printed by an upload.
	RemotePath string
	// LocalPath is the destination file. "-" hands the body to the caller.
	LocalPath string
}

// DownloadResult describes a fetched file.
type DownloadResult struct {
	RemotePath  string `json:"remote_path"`
	URL         string `json:"url"`
	LocalPath   string `json:"local_path"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size_bytes"`
}

// ListOptions configures a list operation.
type ListOptions struct {
	Prefix string
	Limit  int
	Cursor string
	All    bool // auto-paginate through all results
}

// ListResult contains paginated list results.
type ListResult struct {
	Items      []ObjectInfo `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// ObjectInfo represents metadata for a single uploaded file.
type ObjectInfo struct {
	ID          uuid.UUID `json:"id"`
	Path        string    `json:"path"`
	ContentType string    `json:"content_type"`
	ETag        string    `json:"etag"`
	Size        int64     `json:"file_size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
