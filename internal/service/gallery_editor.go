package service

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var (
	ErrItemNotFound       = errors.New("gallery item not found")
	ErrTitleRequired      = errors.New("gallery item title is required")
	ErrDescRequired       = errors.New("gallery item description is required")
	ErrReorderIncomplete  = errors.New("reorder must include every gallery item")
	ErrImageSourceMissing = errors.New("gallery item image is required")
)

// ImageEmbedder converts a transient image source into a durable embedded
// representation (a data URI) that survives persistence on its own.
type ImageEmbedder func(r io.Reader) (string, error)

// AddItemInput carries the fields accepted when adding a gallery item. Either
// ImageURL or Image must be set; when Image is set it is embedded before the
// item is stored.
type AddItemInput struct {
	Title       string
	Description string
	Alt         string
	ImageURL    string
	Image       io.Reader
}

// GalleryEditor applies edit operations to one category. Every operation
// reads the current persisted list, produces a new list and saves it
// wholesale; a mutex keeps each read-modify-write continuous.
type GalleryEditor struct {
	mu       sync.Mutex
	library  *GalleryLibrary
	category Category
	embed    ImageEmbedder
	now      func() time.Time
}

// NewGalleryEditor creates an editor for the category. embed may be nil when
// callers only ever supply ready image URLs.
func NewGalleryEditor(library *GalleryLibrary, category Category, embed ImageEmbedder) *GalleryEditor {
	return &GalleryEditor{
		library:  library,
		category: category,
		embed:    embed,
		now:      time.Now,
	}
}

// Category returns the category this editor operates on.
func (e *GalleryEditor) Category() Category {
	return e.category
}

// Items returns the current persisted list.
func (e *GalleryEditor) Items() []Item {
	return e.library.Items(e.category)
}

// Add validates the input, embeds a transient image source if one was
// supplied and appends the new item at the end of the list. Nothing is
// committed when validation or embedding fails.
func (e *GalleryEditor) Add(input AddItemInput) (*Item, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, ErrDescRequired
	}

	imageURL := strings.TrimSpace(input.ImageURL)
	if input.Image != nil {
		embedded, err := e.embedImage(input.Image)
		if err != nil {
			return nil, fmt.Errorf("embed image: %w", err)
		}
		imageURL = embedded
	}
	if imageURL == "" {
		return nil, ErrImageSourceMissing
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	items := e.library.Items(e.category)
	item := Item{
		ID:          e.newItemID(items),
		ImageURL:    imageURL,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Alt:         strings.TrimSpace(input.Alt),
		Order:       len(items),
	}

	e.library.SaveItems(e.category, append(items, item))
	return &item, nil
}

// Delete removes the item with the given id and renumbers the remaining
// items 0..n-1 in their existing sequence.
func (e *GalleryEditor) Delete(id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := e.library.Items(e.category)
	remaining := make([]Item, 0, len(items))
	found := false
	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, item)
	}
	if !found {
		return ErrItemNotFound
	}

	for i := range remaining {
		remaining[i].Order = i
	}
	e.library.SaveItems(e.category, remaining)
	return nil
}

// MoveUp swaps the item at index with its predecessor. Index 0 and
// out-of-range indexes are no-ops.
func (e *GalleryEditor) MoveUp(index int) {
	e.move(index, index-1)
}

// MoveDown swaps the item at index with its successor. The last index and
// out-of-range indexes are no-ops.
func (e *GalleryEditor) MoveDown(index int) {
	e.move(index, index+1)
}

func (e *GalleryEditor) move(from, to int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := e.library.Items(e.category)
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return
	}

	items[from], items[to] = items[to], items[from]
	items[from].Order, items[to].Order = from, to
	e.library.SaveItems(e.category, items)
}

// ToggleFeatured flips the featured flag on the matching item. Every other
// item, and the list order, stays untouched.
func (e *GalleryEditor) ToggleFeatured(id int64) (*Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := e.library.Items(e.category)
	for i := range items {
		if items[i].ID == id {
			items[i].Featured = !items[i].Featured
			saved := e.library.SaveItems(e.category, items)
			return &saved[i], nil
		}
	}
	return nil, ErrItemNotFound
}

// Edit replaces the item with the matching identifier wholesale. The item
// keeps its display position; an edit is not a reorder.
func (e *GalleryEditor) Edit(updated Item) (*Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := e.library.Items(e.category)
	for i := range items {
		if items[i].ID == updated.ID {
			updated.Order = items[i].Order
			items[i] = updated
			saved := e.library.SaveItems(e.category, items)
			return &saved[i], nil
		}
	}
	return nil, ErrItemNotFound
}

// Reorder rewrites the whole list in the sequence given by ids. The id list
// must be a complete permutation of the current items: an unknown id, or a
// list that misses items, fails the whole operation with nothing applied.
func (e *GalleryEditor) Reorder(ids []int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	items := e.library.Items(e.category)
	byID := make(map[int64]Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	if len(ids) != len(items) {
		return ErrReorderIncomplete
	}

	reordered := make([]Item, 0, len(items))
	seen := make(map[int64]bool, len(ids))
	for i, id := range ids {
		item, ok := byID[id]
		if !ok || seen[id] {
			return fmt.Errorf("%w: id %d", ErrItemNotFound, id)
		}
		seen[id] = true
		item.Order = i
		reordered = append(reordered, item)
	}

	e.library.SaveItems(e.category, reordered)
	return nil
}

func (e *GalleryEditor) embedImage(r io.Reader) (string, error) {
	if e.embed == nil {
		return "", errors.New("no image embedder configured")
	}
	return e.embed(r)
}

// newItemID derives a fresh identifier from the current time, bumping it
// while it collides with an existing item.
func (e *GalleryEditor) newItemID(items []Item) int64 {
	used := make(map[int64]bool, len(items))
	for _, item := range items {
		used[item.ID] = true
	}

	id := e.now().UnixMilli()
	for used[id] {
		id++
	}
	return id
}
