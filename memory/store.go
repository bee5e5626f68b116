// Package memory is the key-value persistence layer beneath session
// snapshots and the materials registry. Keys are /-separated paths whose
// first segment is a namespace; values are raw bytes.
package memory

import (
	"context"
	"errors"
)

// Errors returned by Store implementations. ErrKeyNotFound is the only one
// callers branch on: the session store maps it to a missing thread.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrInvalidKey  = errors.New("invalid key")
	ErrLoadFailed  = errors.New("load failed")
	ErrSaveFailed  = errors.New("save failed")
)

// Store translates between external storage and the key namespace.
// Implementations perform I/O on each call and must be safe for
// concurrent use.
type Store interface {
	// List returns the keys beginning with prefix, sorted. An empty prefix
	// lists every key.
	List(ctx context.Context, prefix string) ([]string, error)
	// Load retrieves entries for the specified keys.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
	// Save persists entries to storage, creating or overwriting as needed.
	Save(ctx context.Context, entries ...Entry) error
	// Delete removes entries from storage. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
