package sync

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/logger"
	"github.com/mosaic-market/metadata-sync/internal/metadata"
)

// CollectionEntry pairs a collection with its metadata document. Document is
// nil when the collection has no pointer entry yet.
type CollectionEntry struct {
	Collection domain.CollectionID
	Document   *metadata.CollectionDocument
}

// Collection returns the current metadata document of a collection.
// ErrPointerNotFound means no document was ever recorded; ErrNoMetadata
// means the document upload failed and was never repaired.
func (s *Synchronizer) Collection(ctx context.Context, collection domain.CollectionID) (*metadata.CollectionDocument, error) {
	if !collection.Valid() {
		return nil, domain.NewValidationError("collection", "not a well-formed chain address")
	}

	var doc metadata.CollectionDocument
	if err := s.loadDocument(ctx, collection.PointerKey(), &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Token returns the current metadata document of a token
func (s *Synchronizer) Token(ctx context.Context, token domain.TokenID) (*metadata.NFTDocument, error) {
	if !token.Valid() {
		return nil, domain.NewValidationError("token", "not a well-formed token identifier")
	}

	var doc metadata.NFTDocument
	if err := s.loadDocument(ctx, token.PointerKey(), &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Tokens returns the documents of all tokens of a collection that have a
// pointer entry, ordered by pointer key
func (s *Synchronizer) Tokens(ctx context.Context, collection domain.CollectionID) ([]metadata.NFTDocument, error) {
	if !collection.Valid() {
		return nil, domain.NewValidationError("collection", "not a well-formed chain address")
	}

	prefix := domain.TOKEN_POINTER_PREFIX + domain.NormalizeAddress(collection.String()) + "_"
	records, err := s.pointers.ListPointers(ctx, prefix)
	if err != nil {
		return nil, err
	}

	docs := make([]metadata.NFTDocument, 0, len(records))
	for _, record := range records {
		var doc metadata.NFTDocument
		if err := s.loadDocument(ctx, record.Key, &doc); err != nil {
			if errors.Is(err, domain.ErrNoMetadata) {
				logger.WarnCtx(ctx, "skipping token without metadata", zap.String("pointerKey", record.Key))
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// CollectionsOf lists a creator's collections from the chain and pairs each
// with its metadata document when one is recorded
func (s *Synchronizer) CollectionsOf(ctx context.Context, creator string) ([]CollectionEntry, error) {
	collections, err := s.gateway.CollectionsByCreator(ctx, creator)
	if err != nil {
		return nil, err
	}

	entries := make([]CollectionEntry, 0, len(collections))
	for _, collection := range collections {
		entry := CollectionEntry{Collection: collection}

		doc, err := s.Collection(ctx, collection)
		switch {
		case err == nil:
			entry.Document = doc
		case errors.Is(err, domain.ErrPointerNotFound), errors.Is(err, domain.ErrNoMetadata):
			// listed without a document
		default:
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// loadDocument resolves a pointer key to its current document, consulting
// the document cache before the content store
func (s *Synchronizer) loadDocument(ctx context.Context, pointerKey string, result interface{}) error {
	record, err := s.pointers.GetPointer(ctx, pointerKey)
	if err != nil {
		return err
	}

	if record.ContentRef == domain.SENTINEL_UPLOAD_FAILED {
		return domain.ErrNoMetadata
	}

	cached, err := s.cache.CachedDocument(ctx, record.ContentRef)
	if err != nil {
		logger.WarnCtx(ctx, "document cache read failed", zap.String("contentRef", record.ContentRef), zap.Error(err))
	}
	if cached != nil {
		if err := json.Unmarshal(cached, result); err == nil {
			return nil
		}
		logger.WarnCtx(ctx, "discarding undecodable cached document", zap.String("contentRef", record.ContentRef))
	}

	if err := s.content.FetchJSON(ctx, record.ContentRef, result); err != nil {
		return err
	}

	if raw, err := json.Marshal(result); err == nil {
		if err := s.cache.CacheDocument(ctx, record.ContentRef, "", raw); err != nil {
			logger.WarnCtx(ctx, "failed to cache fetched document", zap.String("contentRef", record.ContentRef), zap.Error(err))
		}
	}

	return nil
}
