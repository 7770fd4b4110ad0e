package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// DiskStore keeps one file per key under a base directory.
type DiskStore struct {
	d        *diskv.Diskv
	basePath string
}

func NewDiskStore(basePath string) (*DiskStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("storage: base path required")
	}
	return &DiskStore{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 512 * 1024,
		}),
		basePath: basePath,
	}, nil
}

func (s *DiskStore) BasePath() string {
	return s.basePath
}

func (s *DiskStore) Get(_ context.Context, key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if !s.d.Has(key) {
		return "", ErrNotFound
	}
	val, err := s.d.Read(key)
	if err != nil {
		return "", err
	}
	return string(val), nil
}

func (s *DiskStore) Set(_ context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.d.Write(key, []byte(value))
}

func (s *DiskStore) Remove(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if !s.d.Has(key) {
		return nil
	}
	return s.d.Erase(key)
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
