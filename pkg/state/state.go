// Package state persists the ref cache and per-configuration build records
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c3i/c3i/pkg/logger"
	"github.com/c3i/c3i/pkg/types"
)

// Cache is the durable union of the last seen refs and every build record
type Cache struct {
	Refs           types.RefMap                 `json:"refs"`
	Configurations map[string]types.BuildRecord `json:"configurations"`
}

// NewCache returns an empty cache
func NewCache() *Cache {
	return &Cache{
		Refs:           types.RefMap{},
		Configurations: map[string]types.BuildRecord{},
	}
}

// Record returns the build record for a configuration
func (c *Cache) Record(name string) (types.BuildRecord, bool) {
	record, ok := c.Configurations[name]
	return record, ok
}

// SetRecord stores the build record for a configuration
func (c *Cache) SetRecord(name string, record types.BuildRecord) {
	if c.Configurations == nil {
		c.Configurations = map[string]types.BuildRecord{}
	}
	c.Configurations[name] = record
}

// Store reads and writes the cache file
type Store struct {
	path   string
	logger logger.Logger
}

// NewStore creates a store for the cache file at path
func NewStore(path string, log logger.Logger) *Store {
	if log == nil {
		log = logger.Discard()
	}
	return &Store{path: path, logger: log}
}

// Path returns the cache file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the cache. A missing file yields an empty cache; an unreadable
// or corrupt one is an error.
func (s *Store) Load() (*Cache, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("No cache file, starting empty", logger.WithField("path", s.path))
			return NewCache(), nil
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	cache := NewCache()
	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file %s: %w", s.path, err)
	}
	if cache.Refs == nil {
		cache.Refs = types.RefMap{}
	}
	if cache.Configurations == nil {
		cache.Configurations = map[string]types.BuildRecord{}
	}

	return cache, nil
}

// Save replaces the cache file atomically
func (s *Store) Save(cache *Cache) error {
	data, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	if err := os.Rename(tempFile, s.path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	s.logger.Debug("Wrote cache", logger.WithField("path", s.path))
	return nil
}
