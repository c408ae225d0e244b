package bundle

import (
	"context"
	"errors"
)

// Store is the external archive service: create and read entries grouped
// under a bundle id.
type Store interface {
	Put(ctx context.Context, bundleID, entryPath string, content []byte) error
	Get(ctx context.Context, bundleID, entryPath string) ([]byte, error)
	List(ctx context.Context, bundleID string) ([]string, error)
}

var ErrNotFound = errors.New("bundle entry not found")
