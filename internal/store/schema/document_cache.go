package schema

import (
	"time"

	"gorm.io/datatypes"
)

// DocumentCacheEntry caches a fetched metadata document by its immutable
// content reference. Entries never change once written: a different document
// gets a different reference.
type DocumentCacheEntry struct {
	ContentRef    string         `gorm:"column:content_ref;primaryKey"`
	CanonicalHash string         `gorm:"column:canonical_hash;not null;index"`
	Document      datatypes.JSON `gorm:"column:document;not null"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default table name
func (DocumentCacheEntry) TableName() string {
	return "document_cache"
}
