package service

import (
	"fmt"
	"io"
)

// Draft holds the working copy of one gallery item while it is being edited.
// Changes stay local until Save commits them through the editor; Cancel
// throws the working copy away unconditionally.
type Draft struct {
	editor   *GalleryEditor
	original Item
	Item     Item
}

// NewDraft opens a draft for the item with the given id.
func NewDraft(editor *GalleryEditor, id int64) (*Draft, error) {
	for _, item := range editor.Items() {
		if item.ID == id {
			return &Draft{editor: editor, original: item, Item: item}, nil
		}
	}
	return nil, ErrItemNotFound
}

// SetImage replaces the draft's image with a durably embedded copy of r.
// The working copy is untouched when embedding fails.
func (d *Draft) SetImage(r io.Reader) error {
	embedded, err := d.editor.embedImage(r)
	if err != nil {
		return fmt.Errorf("embed image: %w", err)
	}
	d.Item.ImageURL = embedded
	return nil
}

// Save commits the working copy through the editor's edit operation.
func (d *Draft) Save() (*Item, error) {
	saved, err := d.editor.Edit(d.Item)
	if err != nil {
		return nil, err
	}
	d.original = *saved
	d.Item = *saved
	return saved, nil
}

// Cancel discards every local change and restores the original item.
func (d *Draft) Cancel() {
	d.Item = d.original
}
