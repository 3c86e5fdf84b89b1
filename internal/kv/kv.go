// Package kv provides the persistent string key-value stores that back local
// state such as favorites.
package kv

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Store is a string key-value store. Get reports whether the key exists.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Open builds a store for the named backend. path is ignored for memory.
// The returned closer releases any underlying resources.
func Open(backend, path string) (Store, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		s, err := NewFile(path)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	case BackendMemory:
		return NewMemory(), nopCloser{}, nil
	case BackendSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
