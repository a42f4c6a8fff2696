package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/campaignsite/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValueStore abstracts the persistence layer for gallery data. Writes are
// atomic per key with last-write-wins semantics; there is no transaction
// spanning multiple keys.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Keys() ([]string, error)
}

// GormStore persists entries in the gallery_entries table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a KeyValueStore backed by gorm.
func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

// Get returns the value stored under key, reporting whether it exists.
func (s *GormStore) Get(key string) (string, bool, error) {
	var entry db.GalleryEntry
	if err := s.db.Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load entry %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Set writes value under key, replacing any previous value.
func (s *GormStore) Set(key, value string) error {
	entry := db.GalleryEntry{Key: key, Value: value}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&entry).Error; err != nil {
		return fmt.Errorf("upsert entry %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key.
func (s *GormStore) Keys() ([]string, error) {
	var keys []string
	if err := s.db.Model(&db.GalleryEntry{}).Order("key").Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("list entry keys: %w", err)
	}
	return keys, nil
}

// MemoryStore is an in-memory KeyValueStore used in tests and previews.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

// Get returns the value stored under key, reporting whether it exists.
func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok, nil
}

// Set writes value under key, replacing any previous value.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Keys lists every stored key in lexical order.
func (s *MemoryStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
