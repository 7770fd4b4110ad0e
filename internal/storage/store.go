package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
)

var ErrNotFound = errors.New("storage: not found")

// Store is a flat string-keyed value store. Remove of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type Backend string

const (
	BackendDisk   Backend = "disk"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

type Closer interface {
	Close() error
}

// Open builds the configured backend. path may start with "~".
func Open(backend Backend, path string) (Store, error) {
	expanded, err := homedir.Expand(strings.TrimSpace(path))
	if err != nil {
		return nil, fmt.Errorf("storage: expand path: %w", err)
	}
	switch backend {
	case BackendDisk, "":
		return NewDiskStore(expanded)
	case BackendSQLite:
		return OpenSQLite(expanded)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}

// Close closes s if the backend holds resources.
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}

// GetString returns fallback when the key is absent or unreadable.
func GetString(ctx context.Context, s Store, key, fallback string) string {
	if s == nil {
		return fallback
	}
	v, err := s.Get(ctx, key)
	if err != nil {
		return fallback
	}
	return v
}

// GetJSON decodes the value under key into out. It reports false, leaving out
// untouched, when the key is absent or the stored value is malformed.
func GetJSON(ctx context.Context, s Store, key string, out any) bool {
	if s == nil {
		return false
	}
	raw, err := s.Get(ctx, key)
	if err != nil || strings.TrimSpace(raw) == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false
	}
	return true
}

func SetJSON(ctx context.Context, s Store, key string, v any) error {
	if s == nil {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(payload))
}
