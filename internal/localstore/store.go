// Package localstore persists the anonymous cart, the cached user profile and the
// API credential cookies between runs. Values are plain JSON with no versioning.
package localstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KV is the raw key-value backend. Get returns ErrNotFound for missing keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
