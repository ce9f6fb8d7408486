package clientcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Client performs operations against a dropzone server.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()

	c := &Client{
		config: &Config{
			Endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
			Username: cfg.Username,
			Password: cfg.Password,
		},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Upload sends file(s) to the server.
// For recursive uploads every regular file under LocalPath is placed in
// opts.Folder under a generated name.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) ([]UploadResult, error) {
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("upload: %w", ErrEmptyPath)
	}
	if opts.Recursive {
		return c.uploadRecursive(ctx, opts)
	}
	result, err := c.uploadSingle(ctx, opts.LocalPath, opts)
	if err != nil {
		return nil, err
	}
	return []UploadResult{result}, nil
}

func (c *Client) uploadRecursive(ctx context.Context, opts UploadOptions) ([]UploadResult, error) {
	info, err := os.Stat(opts.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("stat local path: %w", err)
	}

	if !info.IsDir() {
		result, uploadErr := c.uploadSingle(ctx, opts.LocalPath, opts)
		if uploadErr != nil {
			return nil, uploadErr
		}
		return []UploadResult{result}, nil
	}

	fileOpts := opts
	fileOpts.Name = ""

	var results []UploadResult
	walkErr := filepath.WalkDir(opts.LocalPath, func(filePath string, d fs.DirEntry, fileErr error) error {
		if fileErr != nil {
			return fileErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.Type().IsRegular() {
			return nil
		}

		result, uploadErr := c.uploadSingle(ctx, filePath, fileOpts)
		if uploadErr != nil {
			result = UploadResult{LocalPath: filePath, Err: uploadErr}
		}
		results = append(results, result)
		return nil
	})

	if walkErr != nil {
		return results, fmt.Errorf("walk directory: %w", walkErr)
	}

	return results, nil
}

// uploadSingle posts one file as multipart/form-data to /upload.
func (c *Client) uploadSingle(ctx context.Context, localPath string, opts UploadOptions) (UploadResult, error) {
	body, contentType, size, err := buildUploadBody(localPath, opts)
	if err != nil {
		return UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint+"/upload", body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return UploadResult{}, parseServerError(resp.StatusCode, respBody)
	}

	remotePath := strings.TrimSpace(string(respBody))
	return UploadResult{
		LocalPath:  localPath,
		RemotePath: remotePath,
		URL:        c.config.Endpoint + remotePath,
		Size:       size,
	}, nil
}

// buildUploadBody encodes the file and its placement fields as a multipart
// form. It returns the body, its content type and the file size.
func buildUploadBody(localPath string, opts UploadOptions) (*bytes.Buffer, string, int64, error) {
	file, err := os.Open(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return nil, "", 0, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"folder":       opts.Folder,
		"name":         opts.Name,
		"dont-use-ext": strconv.FormatBool(opts.DropExtension),
	}
	for _, key := range []string{"folder", "name", "dont-use-ext"} {
		if err := w.WriteField(key, fields[key]); err != nil {
			return nil, "", 0, fmt.Errorf("write field %s: %w", key, err)
		}
	}

	part, err := w.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return nil, "", 0, fmt.Errorf("create form file: %w", err)
	}
	size, err := io.Copy(part, file)
	if err != nil {
		return nil, "", 0, fmt.Errorf("read file: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", 0, fmt.Errorf("close multipart writer: %w", err)
	}

	return &buf, w.FormDataContentType(), size, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.config.Username != "" {
		req.SetBasicAuth(c.config.Username, c.config.Password)
	}
}

// Download fetches a stored file. RemotePath is either a path as returned by
// Upload ("/shots/abcde.png") or a full URL on any server.
// When opts.LocalPath is "-" the body is returned for the caller to read and
// close; otherwise it is written to LocalPath, defaulting to the base name of
// the remote path. Stored files are public, so no credentials are sent.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	if strings.Trim(opts.RemotePath, "/") == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrEmptyPath)
	}
	target, remotePath := c.resolveDownload(opts.RemotePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, nil, parseServerError(resp.StatusCode, body)
	}

	result := &DownloadResult{
		RemotePath:  remotePath,
		URL:         target,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}
	defer func() { _ = resp.Body.Close() }()

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = path.Base(remotePath)
	}
	result.LocalPath = localPath

	written, err := writeFileAtomic(localPath, resp.Body)
	if err != nil {
		return nil, nil, err
	}
	result.Size = written

	return result, nil, nil
}

// resolveDownload returns the URL to fetch and the remote path it names.
func (c *Client) resolveDownload(remote string) (string, string) {
	if u, err := url.Parse(remote); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return remote, u.Path
	}
	remotePath := "/" + strings.TrimPrefix(remote, "/")
	return c.config.Endpoint + remotePath, remotePath
}

// writeFileAtomic copies r into a temporary file next to dst and renames it
// into place. A failed transfer leaves dst untouched.
func writeFileAtomic(dst string, r io.Reader) (int64, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".part-*")
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	written, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, fmt.Errorf("move file into place: %w", err)
	}

	return written, nil
}

// List lists indexed uploads.
// If opts.All is true, paginates through all results.
func (c *Client) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	if opts.All {
		return c.listAll(ctx, opts)
	}
	return c.listPage(ctx, opts)
}

func (c *Client) listPage(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if opts.Prefix != "" {
		query.Set("prefix", opts.Prefix)
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.Endpoint+"/api/uploads?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseServerError(resp.StatusCode, body)
	}

	var result ListResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if result.Items == nil {
		result.Items = []ObjectInfo{}
	}

	return &result, nil
}

func (c *Client) listAll(ctx context.Context, opts ListOptions) (*ListResult, error) {
	allItems := []ObjectInfo{}
	cursor := opts.Cursor

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := c.listPage(ctx, ListOptions{
			Prefix: opts.Prefix,
			Limit:  opts.Limit,
			Cursor: cursor,
		})
		if err != nil {
			return nil, err
		}

		allItems = append(allItems, page.Items...)

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return &ListResult{Items: allItems}, nil
}

// TotalSize calculates the total size of all items in bytes.
func (r *ListResult) TotalSize() int64 {
	var total int64
	for _, item := range r.Items {
		total += item.Size
	}
	return total
}

// HasUploadErrors returns true if any upload in results failed.
func HasUploadErrors(results []UploadResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// parseServerError builds an APIError from a non-success response. JSON
// bodies from the API routes contribute their message; plain text bodies
// from the upload route are kept as they are.
func parseServerError(statusCode int, body []byte) error {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		apiErr.Code = payload.Error
		apiErr.Body = payload.Message
	}

	return apiErr
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	// Code is the machine-readable error code of JSON responses.
	Code string
	Body string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is reports whether target matches this error.
// It matches if target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// Sentinel errors for common API error conditions.
// Use errors.Is() to check for these conditions.
var (
	// ErrNotFound is returned when the requested resource does not exist (404).
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when basic auth credentials are missing or wrong (401).
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}

	// ErrConflict is returned when the requested file name is taken (409).
	ErrConflict = &APIError{StatusCode: http.StatusConflict}

	// ErrBadRequest is returned when the server rejects the upload parameters (400).
	ErrBadRequest = &APIError{StatusCode: http.StatusBadRequest}
)
