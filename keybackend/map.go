// Package keybackend provides CredentialStore implementations for basic auth.
package keybackend

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"github.com/sagarc03/dropzone"
)

// MapUserStore verifies credentials against an in-memory map.
// Suitable for configuration file-based user lists.
type MapUserStore struct {
	users map[string][sha256.Size]byte
}

// NewMapUserStore creates a store from a username to password mapping.
func NewMapUserStore(users map[string]string) *MapUserStore {
	hashed := make(map[string][sha256.Size]byte, len(users))
	for name, password := range users {
		hashed[name] = sha256.Sum256([]byte(password))
	}
	return &MapUserStore{users: hashed}
}

// Verify checks password for username. Passwords are compared as SHA-256
// digests in constant time, so the comparison does not leak their length.
func (s *MapUserStore) Verify(username, password string) error {
	given := sha256.Sum256([]byte(password))

	want, found := s.users[username]
	if !found {
		// Burn the same comparison for unknown users.
		subtle.ConstantTimeCompare(given[:], given[:])
		return fmt.Errorf("%w: %w", ErrUserNotFound, dropzone.ErrUnauthorized)
	}

	if subtle.ConstantTimeCompare(given[:], want[:]) != 1 {
		return fmt.Errorf("password mismatch for %q: %w", username, dropzone.ErrUnauthorized)
	}

	return nil
}

// Len returns the number of configured users.
func (s *MapUserStore) Len() int {
	return len(s.users)
}
