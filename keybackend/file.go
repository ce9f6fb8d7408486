package keybackend

import (
	"encoding/json"
	"fmt"
	"os"
)

// User is a basic-auth username and password.
type User struct {
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
}

// LoadUsersFromFile loads basic-auth users from a JSON file.
// The file should contain an array of users:
//
//	[
//	  {"username": "alice", "password": "s3cret"},
//	  {"username": "bob", "password": "hunter2"}
//	]
//
// Returns a map of username to password. Entries with an empty username or
// password are skipped.
func LoadUsersFromFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}

	out := make(map[string]string, len(users))
	for _, u := range users {
		if u.Username != "" && u.Password != "" {
			out[u.Username] = u.Password
		}
	}

	return out, nil
}
