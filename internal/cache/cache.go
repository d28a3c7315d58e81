// Package cache implements the disk-backed content cache for geocoding
// results and downloaded map data.
package cache

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no entry exists for a key. It is distinct from a
// read failure on an entry that does exist.
var ErrNotFound = errors.New("cache: entry not found")

// ReadError reports an entry that exists but could not be loaded.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cache: failed to load entry for key %q: %v", e.Key, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failed store. Callers treat caching as best-effort
// and downgrade it to a warning.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cache: failed to store entry for key %q: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Store is a byte-blob cache keyed by opaque logical strings.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte) error
	Exists(key string) bool
	Clear() error
}
