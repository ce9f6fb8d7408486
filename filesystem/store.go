// Package filesystem provides the file system storage backend for dropzone.
// It writes uploads with exclusive create so an existing file is never
// replaced, computes SHA256-based etags and detects content types by
// sniffing file content.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sagarc03/dropzone"
)

// Store provides file system storage operations.
type Store struct {
	root *os.Root
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// FS returns a read-only view of the storage root for serving files.
func (s *Store) FS() fs.FS {
	return s.root.FS()
}

// Exists reports whether anything is present at path.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := s.root.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Create writes content to a new file at the given path. Intermediate
// directories are created as needed. If the path is taken it returns
// dropzone.ErrAlreadyExists and leaves the existing file untouched. A failed
// write removes the partial file.
func (s *Store) Create(ctx context.Context, filePath string, content io.Reader) (dropzone.SaveResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return dropzone.SaveResult{}, ctxErr
	}

	destDir := path.Dir(filePath)
	if destDir != "." {
		if err := s.root.MkdirAll(destDir, 0o755); err != nil {
			return dropzone.SaveResult{}, fmt.Errorf("could not create intermediate directories: %w", err)
		}
	}

	f, openErr := s.root.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if openErr != nil {
		if errors.Is(openErr, os.ErrExist) {
			return dropzone.SaveResult{}, fmt.Errorf("create %s: %w", filePath, dropzone.ErrAlreadyExists)
		}
		return dropzone.SaveResult{}, fmt.Errorf("could not create file: %w", openErr)
	}

	success := false
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close file", "path", filePath, "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(filePath); rmErr != nil {
				slog.Warn("failed to remove partial file", "path", filePath, "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	w := io.MultiWriter(h, f)

	fileSizeBytes, err := io.Copy(w, &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return dropzone.SaveResult{}, fmt.Errorf("could not copy file contents: %w", err)
	}

	if err := f.Sync(); err != nil {
		return dropzone.SaveResult{}, fmt.Errorf("could not sync written file: %w", err)
	}

	success = true
	return dropzone.SaveResult{BytesWritten: fileSizeBytes, Etag: hex.EncodeToString(h.Sum(nil))}, nil
}

// List recursively walks the root directory and returns all files with
// their size, SHA256-based etag and detected content type. Dotfiles and
// dot directories are skipped.
func (s *Store) List(ctx context.Context) ([]dropzone.FileEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries := []dropzone.FileEntry{}

	err := s.walkDir(ctx, ".", &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return entries, nil
}

func (s *Store) walkDir(ctx context.Context, dir string, entries *[]dropzone.FileEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dirEntries, err := fs.ReadDir(s.root.FS(), dir)
	if err != nil {
		return err
	}

	for _, entry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		entryPath := path.Join(dir, entry.Name())

		if entry.IsDir() {
			if err := s.walkDir(ctx, entryPath, entries); err != nil {
				return err
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		fe, err := s.describe(entryPath)
		if err != nil {
			return fmt.Errorf("walk dir: %w", err)
		}
		*entries = append(*entries, fe)
	}

	return nil
}

// describe hashes the file at p and sniffs its content type in one pass.
func (s *Store) describe(p string) (dropzone.FileEntry, error) {
	f, err := s.root.Open(p)
	if err != nil {
		return dropzone.FileEntry{}, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close file", "path", p, "err", closeErr)
		}
	}()

	h := sha256.New()
	head := &headWriter{limit: sniffLen}
	size, err := io.Copy(io.MultiWriter(h, head), f)
	if err != nil {
		return dropzone.FileEntry{}, err
	}

	return dropzone.FileEntry{
		Path:        p,
		Size:        size,
		ETag:        hex.EncodeToString(h.Sum(nil)),
		ContentType: mimetype.Detect(head.buf).String(),
	}, nil
}

// sniffLen matches the amount of content mimetype inspects by default.
const sniffLen = 3072

// headWriter keeps the first limit bytes written to it.
type headWriter struct {
	buf   []byte
	limit int
}

func (w *headWriter) Write(p []byte) (int, error) {
	if room := w.limit - len(w.buf); room > 0 {
		w.buf = append(w.buf, p[:min(room, len(p))]...)
	}
	return len(p), nil
}
