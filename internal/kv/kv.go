// Package kv defines the per-user key/value capability that completion
// checks read from, plus the backends the CLI can open.
//
// Values are raw JSON text. Keys are opaque strings, conventionally
// "<namespace>_<userID>".
package kv

import (
	"errors"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// ErrInvalidJSON is returned by stores that can only hold JSON values.
var ErrInvalidJSON = errors.New("value is not valid JSON")

// Reader is the read side of the store. It is all completion checks need.
type Reader interface {
	// Get returns the raw value stored under key. ok is false when the key
	// does not exist.
	Get(key string) (value string, ok bool, err error)
}

// Store is a readable and writable key/value store.
type Store interface {
	Reader
	Set(key, value string) error
	Close() error
}

// Key joins a namespace and a user id into a store key.
func Key(namespace, userID string) string {
	return namespace + "_" + userID
}

// Open opens a store for the given backend. path is ignored for the memory
// backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
