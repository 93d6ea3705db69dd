// Package kv persists the application's documents (positions, candidates,
// ordering presets) as JSON values under well-known string keys.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// Well-known document keys
const (
	KeyPositions       = "positions"
	KeyCandidates      = "candidates"
	KeyOrderingPresets = "ordering-presets"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrPersist wraps every failed write. The in-memory state that triggered the
// write is kept by callers, so this error is recoverable.
var ErrPersist = errors.New("persist failed")

// Store is a get/set key-value document store
type Store interface {
	// Get decodes the value stored under key into dst. It reports false and
	// leaves dst untouched when the key is absent.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set replaces the value stored under key
	Set(ctx context.Context, key string, value any) error
	// Keys lists stored keys in ascending order
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Open creates the store for the configured driver
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		if dsn == "" {
			dsn = "recruiter.db"
		}
		return NewSQLStore(DriverSQLite, dsn)
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres store requires a dsn")
		}
		return NewSQLStore(DriverPostgres, dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}
