package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/campaignsite/internal/service"
	"github.com/gin-gonic/gin"
)

type galleryItemPayload struct {
	ImageURL    string `json:"imageUrl"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Alt         string `json:"alt"`
	Featured    bool   `json:"featured"`
}

type movePayload struct {
	Index     int    `json:"index"`
	Direction string `json:"direction"`
}

type reorderPayload struct {
	IDs []int64 `json:"ids"`
}

// ListGalleryItems returns the category's items in display order.
func (a *API) ListGalleryItems(c *gin.Context) {
	editor, ok := a.editorFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": editor.Items()})
}

// CreateGalleryItem adds a new item. The image arrives either as a multipart
// file, which is optimized and embedded before storage, or as a ready URL.
func (a *API) CreateGalleryItem(c *gin.Context) {
	editor, ok := a.editorFor(c)
	if !ok {
		return
	}

	input := service.AddItemInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Alt:         c.PostForm("alt"),
		ImageURL:    c.PostForm("image_url"),
	}

	if file, err := c.FormFile("image"); err == nil {
		if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
			respondError(c, http.StatusBadRequest, "only image files are allowed")
			return
		}
		src, err := file.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "failed to read uploaded image")
			return
		}
		defer src.Close()
		input.Image = src
	}

	item, err := editor.Add(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleRequired):
			respondError(c, http.StatusBadRequest, "title is required")
		case errors.Is(err, service.ErrDescRequired):
			respondError(c, http.StatusBadRequest, "description is required")
		case errors.Is(err, service.ErrImageSourceMissing):
			respondError(c, http.StatusBadRequest, "an image is required")
		default:
			respondError(c, http.StatusBadRequest, "failed to process image")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item created", "item": item})
}

// UpdateGalleryItem replaces the item with the matching id wholesale.
func (a *API) UpdateGalleryItem(c *gin.Context) {
	editor, ok := a.editorFor(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid item id")
		return
	}

	var payload galleryItemPayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	item, err := editor.Edit(service.Item{
		ID:          id,
		ImageURL:    payload.ImageURL,
		Title:       payload.Title,
		Description: payload.Description,
		Alt:         payload.Alt,
		Featured:    payload.Featured,
	})
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondError(c, http.StatusNotFound, "item not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item updated", "item": item})
}

// DeleteGalleryItem removes an item and renumbers the rest.
func (a *API) DeleteGalleryItem(c *gin.Context) {
	editor, ok := a.editorFor(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := editor.Delete(id); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondError(c, http.StatusNotFound, "item not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to delete item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item deleted", "items": editor.Items()})
}

// MoveGalleryItem shifts the item at the given index one position up or
// down. Boundary moves leave the list unchanged.
func (a *API) MoveGalleryItem(c *gin.Context) {
	editor, ok := a.editorFor(c)
	if !ok {
		return
	}

	var payload movePayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	switch payload.Direction {
	case "up":
		editor.MoveUp(payload.Index)
	case "down":
		editor.MoveDown(payload.Index)
	default:
		respondError(c, http.StatusBadRequest, "direction must be up or down")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": editor.Items()})
}

// ReorderGalleryItems rewrites the whole display sequence from an id list.
// The operation is all-or-nothing: any unknown or missing id rejects it.
func (a *API) ReorderGalleryItems(c *gin.Context) {
	editor, ok := a.editorFor(c)
	if !ok {
		return
	}

	var payload reorderPayload
	if !bindJSON(c, &payload, "invalid request body") {
		return
	}

	if err := editor.Reorder(payload.IDs); err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound), errors.Is(err, service.ErrReorderIncomplete):
			respondError(c, http.StatusBadRequest, "id list does not match the gallery")
		default:
			respondError(c, http.StatusInternalServerError, "failed to reorder items")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": editor.Items()})
}

// ToggleGalleryFeatured flips the featured flag on one item.
func (a *API) ToggleGalleryFeatured(c *gin.Context) {
	editor, ok := a.editorFor(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := editor.ToggleFeatured(id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondError(c, http.StatusNotFound, "item not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item updated", "item": item})
}

// GalleryEvents streams gallery changes as server-sent events so open admin
// tabs can refresh without polling. Events that arrive faster than the
// client reads are dropped; delivery is best-effort.
func (a *API) GalleryEvents(c *gin.Context) {
	events := make(chan service.Change, 8)
	unsubscribe := a.library.Notifier().Subscribe(func(change service.Change) {
		select {
		case events <- change:
		default:
		}
	})
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case change := <-events:
			c.SSEvent("gallery", change)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
