// Package internal holds helpers shared by the database backends.
package internal

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cursor is the position after the last item of a list page.
type Cursor struct {
	CreatedAt time.Time
	Path      string
}

// EncodeCursor encodes cursor data to a base64 string for pagination.
func EncodeCursor(createdAt time.Time, path string) string {
	data := createdAt.UTC().Format(time.RFC3339Nano) + "|" + path
	return base64.URLEncoding.EncodeToString([]byte(data))
}

// DecodeCursor decodes a pagination cursor string back to cursor data.
// The empty string decodes to the zero Cursor.
func DecodeCursor(cursor string) (Cursor, error) {
	if cursor == "" {
		return Cursor{}, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: invalid encoding: %w", err)
	}

	ts, p, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return Cursor{}, errors.New("decode cursor: invalid format")
	}

	if p == "" {
		return Cursor{}, errors.New("decode cursor: empty path")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: invalid timestamp: %w", err)
	}

	return Cursor{CreatedAt: createdAt, Path: p}, nil
}

// EscapeLikePattern escapes special LIKE characters (%, _, \).
func EscapeLikePattern(pattern string) string {
	return likeEscaper.Replace(pattern)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
