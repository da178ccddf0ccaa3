package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/store/schema"
)

// PointerStore is the durable mapping from pointer keys to content
// references. Set upserts with last-write-wins semantics on the key.
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=PointerStore=MockPointerStore,DocumentCache=MockDocumentCache
type PointerStore interface {
	// SetPointer records the latest content reference for a key
	SetPointer(ctx context.Context, key, contentRef, txHash string, chain domain.Chain) error

	// GetPointer returns the record for a key, or ErrPointerNotFound
	GetPointer(ctx context.Context, key string) (*schema.PointerRecord, error)

	// DeletePointer removes the record for a key. Deleting an absent key is
	// not an error.
	DeletePointer(ctx context.Context, key string) error

	// ListPointers returns all records whose key starts with prefix, ordered
	// by key
	ListPointers(ctx context.Context, prefix string) ([]schema.PointerRecord, error)
}

// DocumentCache stores fetched metadata documents keyed by their immutable
// content reference
type DocumentCache interface {
	// CacheDocument stores a document under its reference. Re-caching an
	// existing reference is a no-op.
	CacheDocument(ctx context.Context, contentRef, canonicalHash string, document []byte) error

	// CachedDocument returns the cached document bytes for a reference, or
	// nil when the reference has not been cached
	CachedDocument(ctx context.Context, contentRef string) ([]byte, error)
}

// PGStore implements PointerStore and DocumentCache on PostgreSQL
type PGStore struct {
	db *gorm.DB
}

// NewPGStore creates a store and migrates its tables
func NewPGStore(db *gorm.DB) (*PGStore, error) {
	if err := db.AutoMigrate(&schema.PointerRecord{}, &schema.DocumentCacheEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &PGStore{db: db}, nil
}

// ConfigureConnectionPool applies connection pool settings to the underlying
// sql.DB. Zero values keep the driver defaults.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql.DB: %w", err)
	}

	if maxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(maxIdleConns)
	}
	if connMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(connMaxLifetime)
	}
	if connMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
	}

	return nil
}

// SetPointer records the latest content reference for a key, overwriting any
// existing record
func (s *PGStore) SetPointer(ctx context.Context, key, contentRef, txHash string, chain domain.Chain) error {
	record := schema.PointerRecord{
		Key:        key,
		ContentRef: contentRef,
		TxHash:     txHash,
		Chain:      string(chain),
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"content_ref", "tx_hash", "chain", "updated_at"}),
		}).
		Create(&record).Error
}

// GetPointer returns the record for a key
func (s *PGStore) GetPointer(ctx context.Context, key string) (*schema.PointerRecord, error) {
	var record schema.PointerRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPointerNotFound
		}
		return nil, err
	}

	return &record, nil
}

// DeletePointer removes the record for a key
func (s *PGStore) DeletePointer(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&schema.PointerRecord{}, "key = ?", key).Error
}

// ListPointers returns all records whose key starts with prefix
func (s *PGStore) ListPointers(ctx context.Context, prefix string) ([]schema.PointerRecord, error) {
	var records []schema.PointerRecord
	if err := s.db.WithContext(ctx).
		Where("key LIKE ?", prefix+"%").
		Order("key").
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

// CacheDocument stores a document under its reference
func (s *PGStore) CacheDocument(ctx context.Context, contentRef, canonicalHash string, document []byte) error {
	entry := schema.DocumentCacheEntry{
		ContentRef:    contentRef,
		CanonicalHash: canonicalHash,
		Document:      datatypes.JSON(document),
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_ref"}},
			DoNothing: true,
		}).
		Create(&entry).Error
}

// CachedDocument returns the cached document bytes for a reference
func (s *PGStore) CachedDocument(ctx context.Context, contentRef string) ([]byte, error) {
	var entry schema.DocumentCacheEntry
	if err := s.db.WithContext(ctx).First(&entry, "content_ref = ?", contentRef).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return []byte(entry.Document), nil
}
