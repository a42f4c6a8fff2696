package db

import "gorm.io/gorm"

// GalleryEntry stores one gallery's serialized item list under its storage key.
type GalleryEntry struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (GalleryEntry) TableName() string {
	return "gallery_entries"
}
