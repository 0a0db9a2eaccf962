// Package kv defines the key-value storage port used by the persistence
// gateway, and a read-through cache decorator for it.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store closed")

// Ports for storage adapters.
type (
	// Store persists text values under string keys. Get reports whether the
	// key exists; a missing key is not an error.
	Store interface {
		Get(ctx context.Context, key string) (value string, ok bool, err error)
		Set(ctx context.Context, key, value string) error
	}

	// Closer is implemented by stores that hold resources.
	Closer interface {
		Close() error
	}
)
