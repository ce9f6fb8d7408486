package dropzone

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	defaultRandomNameLength = 5
	defaultMaxNameAttempts  = 32
)

// UploadRepo defines the interface for the upload index.
// Implementations must handle concurrent access safely.
type UploadRepo interface {
	// Get retrieves the index entry for a path.
	// Returns ErrNotFound if the path is not indexed.
	Get(ctx context.Context, path string) (Upload, error)

	// Upsert creates or updates the entry for entry.Path. The bool result is
	// true when a new entry was created.
	Upsert(ctx context.Context, entry FileEntry) (Upload, bool, error)

	// List returns a page of entries ordered by creation time then path.
	List(ctx context.Context, q ListQuery) (ListResult, error)
}

// FileStorage defines the interface for physical file storage operations.
//
// All methods accept a context for cancellation and timeout control.
type FileStorage interface {
	// Exists reports whether a file or directory is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Create writes content to a new file at path, creating parent
	// directories as needed. It returns ErrAlreadyExists when path is taken
	// and never overwrites.
	Create(ctx context.Context, path string, content io.Reader) (SaveResult, error)

	// List returns every file currently in storage.
	List(ctx context.Context) ([]FileEntry, error)
}

// ServiceConfig holds configuration options for UploadService.
type ServiceConfig struct {
	RandomNameLength int // Length of generated names (default: 5)
	MaxNameAttempts  int // Generated names tried before giving up (default: 32)
}

type UploadService struct {
	repo         UploadRepo
	storage      FileStorage
	nameLength   int
	nameAttempts int
}

func NewUploadService(repo UploadRepo, storage FileStorage, cfg ServiceConfig) (*UploadService, error) {
	if repo == nil {
		return nil, fmt.Errorf("new upload service: %w: repo is required", ErrInvalidInput)
	}
	if storage == nil {
		return nil, fmt.Errorf("new upload service: %w: storage is required", ErrInvalidInput)
	}

	nameLength := cfg.RandomNameLength
	if nameLength <= 0 {
		nameLength = defaultRandomNameLength
	}
	nameAttempts := cfg.MaxNameAttempts
	if nameAttempts <= 0 {
		nameAttempts = defaultMaxNameAttempts
	}

	return &UploadService{
		repo:         repo,
		storage:      storage,
		nameLength:   nameLength,
		nameAttempts: nameAttempts,
	}, nil
}

// Upload validates req, stores the file and indexes it.
//
// Error types returned:
//   - ErrFileMissing, ErrInvalidFolder, ErrInvalidFilename: bad request parameters
//   - ErrAlreadyExists: a file with the requested name is already stored
//   - ErrInternal: no free generated name was found
//   - Wrapped storage errors
//
// A failure to index the stored file is logged and does not fail the upload.
func (s *UploadService) Upload(ctx context.Context, req UploadRequest) (Upload, error) {
	if err := ctx.Err(); err != nil {
		return Upload{}, fmt.Errorf("upload: %w", err)
	}

	if req.File == nil {
		return Upload{}, fmt.Errorf("upload: %w", ErrFileMissing)
	}
	if !IsValidFolder(req.Folder) || IsReservedName(req.Folder) {
		return Upload{}, fmt.Errorf("upload %q: %w", req.Folder, ErrInvalidFolder)
	}
	if !IsValidFilename(req.Name) {
		return Upload{}, fmt.Errorf("upload %q: %w", req.Name, ErrInvalidFilename)
	}

	var ext string
	if req.KeepExtension {
		ext = detectExtension(req.File.Data)
		if ext == "" {
			ext = extFromName(req.File.Name)
		}
	}

	var (
		storedPath string
		saved      SaveResult
		err        error
	)
	if req.Name != "" {
		storedPath, saved, err = s.createNamed(ctx, req.Folder, req.Name+ext, req.File.Data)
	} else {
		storedPath, saved, err = s.createRandom(ctx, req.Folder, ext, req.File.Data)
	}
	if err != nil {
		return Upload{}, fmt.Errorf("upload: %w", err)
	}

	entry := FileEntry{
		Path:        storedPath,
		Size:        saved.BytesWritten,
		ETag:        saved.Etag,
		ContentType: mimetype.Detect(req.File.Data).String(),
	}

	u, _, upsertErr := s.repo.Upsert(ctx, entry)
	if upsertErr != nil {
		slog.Warn("index upload failed", "path", storedPath, "err", upsertErr)
		now := time.Now().UTC()
		u = Upload{
			Path:          entry.Path,
			ContentType:   entry.ContentType,
			Etag:          entry.ETag,
			FileSizeBytes: entry.Size,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}

	return u, nil
}

func (s *UploadService) createNamed(ctx context.Context, folder, name string, data []byte) (string, SaveResult, error) {
	p := path.Join(folder, name)
	if !IsValidPath(p) || IsReservedName(p) {
		return "", SaveResult{}, fmt.Errorf("%q: %w", name, ErrInvalidFilename)
	}

	exists, err := s.storage.Exists(ctx, p)
	if err != nil {
		return "", SaveResult{}, fmt.Errorf("check %s: %w", p, err)
	}
	if exists {
		return "", SaveResult{}, fmt.Errorf("%s: %w", p, ErrAlreadyExists)
	}

	saved, err := s.storage.Create(ctx, p, bytes.NewReader(data))
	if err != nil {
		return "", SaveResult{}, fmt.Errorf("write %s: %w", p, err)
	}
	return p, saved, nil
}

func (s *UploadService) createRandom(ctx context.Context, folder, ext string, data []byte) (string, SaveResult, error) {
	for range s.nameAttempts {
		p := path.Join(folder, randomName(s.nameLength)+ext)
		if IsReservedName(p) {
			continue
		}

		exists, err := s.storage.Exists(ctx, p)
		if err != nil {
			return "", SaveResult{}, fmt.Errorf("check %s: %w", p, err)
		}
		if exists {
			continue
		}

		saved, err := s.storage.Create(ctx, p, bytes.NewReader(data))
		if errors.Is(err, ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return "", SaveResult{}, fmt.Errorf("write %s: %w", p, err)
		}
		return p, saved, nil
	}

	return "", SaveResult{}, fmt.Errorf("no free name in %q after %d attempts: %w", folder, s.nameAttempts, ErrInternal)
}

// detectExtension sniffs data and returns the extension of its format, or ""
// for plain text and unrecognised content.
func detectExtension(data []byte) string {
	m := mimetype.Detect(data)
	if m.Is("application/octet-stream") {
		return ""
	}
	for p := m; p != nil; p = p.Parent() {
		if p.Is("text/plain") {
			return ""
		}
	}
	return m.Extension()
}

// List returns a page of indexed uploads.
func (s *UploadService) List(ctx context.Context, q ListQuery) (ListResult, error) {
	if err := ctx.Err(); err != nil {
		return ListResult{}, fmt.Errorf("list uploads: %w", err)
	}

	result, err := s.repo.List(ctx, q)
	if err != nil {
		return ListResult{}, fmt.Errorf("list uploads: %w", err)
	}

	return result, nil
}

// Populate indexes every file in storage that is missing from the index or
// whose content changed. It returns the number of entries written.
//
// The operation is not atomic. If it fails partway through, files processed
// before the failure stay indexed.
func (s *UploadService) Populate(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("populate: %w", err)
	}

	files, listErr := s.storage.List(ctx)
	if listErr != nil {
		return 0, fmt.Errorf("populate: %w", listErr)
	}

	indexed := 0
	for _, file := range files {
		existing, getErr := s.repo.Get(ctx, file.Path)
		switch {
		case getErr == nil && existing.Etag == file.ETag:
			continue
		case getErr != nil && !errors.Is(getErr, ErrNotFound):
			return indexed, fmt.Errorf("populate '%s': %w", file.Path, getErr)
		}

		if _, _, upsertErr := s.repo.Upsert(ctx, file); upsertErr != nil {
			return indexed, fmt.Errorf("populate '%s': %w", file.Path, upsertErr)
		}
		indexed++
	}

	return indexed, nil
}
