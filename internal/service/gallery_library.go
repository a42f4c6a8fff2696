package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// GalleryLibrary reads and writes gallery item lists through a KeyValueStore
// and publishes a change event after every successful save. Reads are
// fail-soft: missing or unreadable entries fall back to seed content so a
// corrupt value never takes a gallery page down.
type GalleryLibrary struct {
	store    KeyValueStore
	notifier *Notifier
	logger   *slog.Logger
}

// NewGalleryLibrary creates a GalleryLibrary over the given store.
func NewGalleryLibrary(store KeyValueStore) *GalleryLibrary {
	return &GalleryLibrary{
		store:    store,
		notifier: NewNotifier(),
		logger:   slog.Default(),
	}
}

// SetLogger overrides the logger, mainly for tests.
func (l *GalleryLibrary) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	l.logger = logger
}

// Notifier exposes the change notifier for subscribers.
func (l *GalleryLibrary) Notifier() *Notifier {
	return l.notifier
}

// Items returns the category's item list sorted ascending by order. When no
// entry exists, or the stored value cannot be parsed, the category's seed
// content is returned instead.
func (l *GalleryLibrary) Items(category Category) []Item {
	raw, ok, err := l.store.Get(category.StorageKey())
	if err != nil {
		l.logger.Error("gallery read failed", "category", category, "error", err)
		return SeedItems(category)
	}
	if !ok {
		return SeedItems(category)
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		l.logger.Error("gallery entry is corrupt", "category", category, "error", err)
		return SeedItems(category)
	}

	sortByOrder(items)
	return items
}

// SaveItems normalizes order values and persists the list wholesale under the
// category's key. Items keep their relative order-value sequence and end up
// numbered 0..n-1 by position. Persistence failures are logged and swallowed;
// on success every subscriber is notified. The normalized list is returned.
func (l *GalleryLibrary) SaveItems(category Category, items []Item) []Item {
	normalized := cloneItems(items)
	sortByOrder(normalized)
	for i := range normalized {
		normalized[i].Order = i
	}

	payload, err := json.Marshal(normalized)
	if err != nil {
		l.logger.Error("gallery serialization failed", "category", category, "error", err)
		return normalized
	}

	if err := l.store.Set(category.StorageKey(), string(payload)); err != nil {
		l.logger.Error("gallery write failed", "category", category, "error", err)
		return normalized
	}

	l.notifier.Publish(Change{Category: category, Items: normalized})
	return normalized
}

// Initialize seeds every category whose entry is absent. Existing entries are
// left untouched, so calling it repeatedly is safe.
func (l *GalleryLibrary) Initialize() error {
	for _, category := range allCategories {
		_, ok, err := l.store.Get(category.StorageKey())
		if err != nil {
			return fmt.Errorf("check gallery %s: %w", category, err)
		}
		if ok {
			continue
		}

		payload, err := json.Marshal(SeedItems(category))
		if err != nil {
			return fmt.Errorf("encode seed for gallery %s: %w", category, err)
		}
		if err := l.store.Set(category.StorageKey(), string(payload)); err != nil {
			return fmt.Errorf("seed gallery %s: %w", category, err)
		}
	}
	return nil
}
