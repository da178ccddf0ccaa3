package schema

import "time"

// PointerRecord maps a pointer key to the content reference of the latest
// metadata document version. Writes are last-write-wins on the key; the
// record never stores document bodies, only references.
type PointerRecord struct {
	Key        string    `gorm:"column:key;primaryKey"`
	ContentRef string    `gorm:"column:content_ref;not null"`
	TxHash     string    `gorm:"column:tx_hash"`
	Chain      string    `gorm:"column:chain;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default table name
func (PointerRecord) TableName() string {
	return "pointer_records"
}
