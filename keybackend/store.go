package keybackend

// UsersConfig holds configuration for loading basic-auth users.
type UsersConfig struct {
	Inline []User `mapstructure:"inline"` // Inline users from config
	File   string `mapstructure:"file"`   // Path to JSON file containing users
}

// NewUserStore creates a MapUserStore from the given configuration.
// It loads users from both inline config and file (if specified), merging
// them into a single store. File users take precedence over inline users if
// there are duplicates.
func NewUserStore(cfg UsersConfig) (*MapUserStore, error) {
	users := make(map[string]string)

	for _, u := range cfg.Inline {
		if u.Username != "" && u.Password != "" {
			users[u.Username] = u.Password
		}
	}

	if cfg.File != "" {
		fileUsers, err := LoadUsersFromFile(cfg.File)
		if err != nil {
			return nil, err
		}
		for name, password := range fileUsers {
			users[name] = password
		}
	}

	return NewMapUserStore(users), nil
}
