package state

import "context"

// KV is the local key-value store every persisted record lives in.
// Get reports whether the key exists.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
	KeyProgress    = "gambia-coding-progress"
	KeyDarkMode    = "darkMode"
)
