// Package metadata is a small key/value table in the local sqlite database.
// The session store keeps the access token here.
package metadata

import (
	"context"
	"time"
)

// Entry is one stored key with the time it was last written.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key, value string, at time.Time) error
	Delete(ctx context.Context, key string) error
	// Clear removes every key.
	Clear(ctx context.Context) error
}
