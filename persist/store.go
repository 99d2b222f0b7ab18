package persist

import (
	"context"
	"errors"
	"fmt"
)

// Store is a simple key-value store for serialized content.
//
// Get returns false if there is no value for key; this is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// ErrQuotaExceeded is returned by stores which limit the amount of data
// they hold.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// PersistError is returned if content could not be stored. The tree is
// never changed by a failed save.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("cannot persist content for key %q: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
