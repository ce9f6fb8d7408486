package dropzone

import (
	"math/rand/v2"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxNameLen is the longest folder or file name accepted from a client.
const maxNameLen = 64

var (
	folderRegex   = regexp.MustCompile(`^[A-Za-z0-9_]*$`)
	filenameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]*$`)
	extRegex      = regexp.MustCompile(`^\.[A-Za-z0-9]{1,16}$`)
)

// reservedNames are top-level path segments answered by routes other than
// the stored-file route. Nothing may be stored under them.
var reservedNames = map[string]bool{
	"upload": true,
	"api":    true,
}

// IsReservedName reports whether s is a top-level path segment that would be
// shadowed by a server route.
func IsReservedName(s string) bool {
	return reservedNames[s]
}

const randomNameAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// IsValidFolder reports whether s can be used as an upload folder: at most
// 64 word characters. The empty string means the storage root.
func IsValidFolder(s string) bool {
	return len(s) <= maxNameLen && folderRegex.MatchString(s)
}

// IsValidFilename reports whether s can be used as a stored file name: at
// most 64 characters of letters, digits, '.', '-' and '_', with no "..".
// The empty string asks for a generated name.
func IsValidFilename(s string) bool {
	return len(s) <= maxNameLen && s != "." && filenameRegex.MatchString(s) && !strings.Contains(s, "..")
}

// randomName returns n characters drawn from [A-Za-z0-9].
func randomName(n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(randomNameAlphabet[rand.IntN(len(randomNameAlphabet))])
	}
	return b.String()
}

// extFromName returns the extension of an uploaded file name when it is a dot
// followed by 1 to 16 letters or digits, or "". Extensions such as ".my-ext"
// are dropped.
func extFromName(name string) string {
	ext := filepath.Ext(name)
	if !extRegex.MatchString(ext) {
		return ""
	}
	return ext
}

// IsValidPath validates that a path string meets the requirements for a storage path.
// It checks that the path:
//   - is not empty, ".", or "/"
//   - is relative (does not start with "/")
//   - does not end with "/"
//   - does not contain ".." (path traversal)
//   - does not contain "//" (empty segments)
//   - does not contain invalid characters: \ ? # ~
//   - is valid UTF-8
//   - does not contain "." segments (/., /./, or ending with /.)
//   - does not contain null bytes, control characters (< 0x20), DEL (0x7f), or whitespace
//
// Returns true if the path is valid, false otherwise.
func IsValidPath(p string) bool {
	if p == "" || p == "/" || p == "." {
		return false
	}

	if p[0] == '/' {
		return false
	}

	if strings.HasSuffix(p, "/") {
		return false
	}

	if strings.Contains(p, "..") {
		return false
	}

	if strings.Contains(p, "//") {
		return false
	}

	if strings.ContainsAny(p, `\?#~`) {
		return false
	}

	if !utf8.ValidString(p) {
		return false
	}

	if p == "/." || strings.Contains(p, "/./") || strings.HasSuffix(p, "/.") {
		return false
	}

	for _, r := range p {
		if r == 0 || r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
