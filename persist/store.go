package persist

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("no such key in store")

// Store holds opaque values by key. Saving a key replaces its value as a whole.
type Store interface {
	// Load returns the value saved under the key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// IsNotFound returns true if the error is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
