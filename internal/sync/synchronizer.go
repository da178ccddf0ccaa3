package sync

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mosaic-market/metadata-sync/internal/adapter"
	"github.com/mosaic-market/metadata-sync/internal/contentstore"
	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/gateway"
	"github.com/mosaic-market/metadata-sync/internal/logger"
	"github.com/mosaic-market/metadata-sync/internal/messaging"
	"github.com/mosaic-market/metadata-sync/internal/metadata"
	"github.com/mosaic-market/metadata-sync/internal/store"
)

// Asset is a raw file to be uploaded to the content store
type Asset struct {
	Filename string
	Data     []byte
}

// Synchronizer drives metadata through the content store, the chain and the
// pointer table so that the three stay consistent. Each public method is one
// operation with a fixed stage sequence; failures report the stage and keep
// already-uploaded asset references.
type Synchronizer struct {
	codec     *metadata.Codec
	content   contentstore.Client
	gateway   gateway.Gateway
	pointers  store.PointerStore
	cache     store.DocumentCache
	publisher messaging.Publisher
	clock     adapter.Clock
	chain     domain.Chain
}

// NewSynchronizer creates a synchronizer. The publisher may be nil, in which
// case no events are broadcast.
func NewSynchronizer(
	codec *metadata.Codec,
	content contentstore.Client,
	gw gateway.Gateway,
	pointers store.PointerStore,
	cache store.DocumentCache,
	publisher messaging.Publisher,
	clock adapter.Clock,
	chain domain.Chain,
) *Synchronizer {
	return &Synchronizer{
		codec:     codec,
		content:   content,
		gateway:   gw,
		pointers:  pointers,
		cache:     cache,
		publisher: publisher,
		clock:     clock,
		chain:     chain,
	}
}

// CreateCollectionInput carries the fields for a collection creation
type CreateCollectionInput struct {
	Name         string
	Symbol       string
	Description  string
	Tags         []string
	ProfileImage *Asset
	BannerImage  *Asset
	// CreatorWallet defaults to the gateway signer address
	CreatorWallet string
}

// CreateCollectionResult reports a completed collection creation
type CreateCollectionResult struct {
	OperationID string
	Collection  domain.CollectionID
	TxHash      string
	ContentRef  string
	AssetRefs   []string
}

// CreateCollection deploys a collection, resolves its address, uploads its
// assets and metadata document, and records the pointer. The deployment is
// submitted first because the collection address is only known after the
// creation transaction confirms.
func (s *Synchronizer) CreateCollection(ctx context.Context, in CreateCollectionInput) (*CreateCollectionResult, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if strings.TrimSpace(in.Symbol) == "" {
		return nil, domain.NewValidationError("symbol", "must not be empty")
	}

	creator := in.CreatorWallet
	if creator == "" {
		creator = s.gateway.SignerAddress()
	}

	op := newOperation(uuid.NewString(), "create-collection")

	// Snapshot of the creator's collections before the deployment. The
	// fallback resolution may only adopt an address absent from this set;
	// anything already known cannot be the collection being created.
	known, err := s.gateway.CollectionsByCreator(ctx, creator)
	if err != nil {
		return nil, op.fail(StageResolveIdentity, err)
	}

	op.to(StateSubmitting)
	txHash, err := s.gateway.SubmitCreateCollection(ctx, in.Name, in.Symbol)
	if err != nil {
		return nil, op.fail(StageSubmit, err)
	}

	receipt, err := s.gateway.AwaitConfirmation(ctx, txHash)
	if err != nil {
		return nil, op.fail(StageSubmit, err)
	}
	op.to(StateConfirmed)

	collection, err := s.resolveCreatedCollection(ctx, receipt, creator, known)
	if err != nil {
		return nil, op.fail(StageResolveIdentity, err)
	}
	op.entity = collection.String()

	op.to(StateUploadingAssets)
	profileRef, err := s.uploadAsset(ctx, op, in.ProfileImage)
	if err != nil {
		return nil, op.fail(StageUploadAssets, err)
	}
	bannerRef, err := s.uploadAsset(ctx, op, in.BannerImage)
	if err != nil {
		return nil, op.fail(StageUploadAssets, err)
	}

	doc, err := s.codec.ComposeCollectionDocument(metadata.CollectionInput{
		Name:            in.Name,
		Symbol:          in.Symbol,
		Description:     in.Description,
		ProfileImageRef: profileRef,
		BannerImageRef:  bannerRef,
		Tags:            in.Tags,
		ContractAddress: collection.String(),
		CreatorWallet:   creator,
	})
	if err != nil {
		return nil, op.fail(StageUploadDocument, err)
	}

	op.to(StateUploadingDocument)
	contentRef, err := s.content.UploadJSON(ctx, "collection.json", doc)
	if err != nil {
		// The collection exists on-chain but has no reachable metadata. The
		// sentinel marks the gap so reads report ErrNoMetadata instead of a
		// missing pointer.
		if sentinelErr := s.pointers.SetPointer(ctx, collection.PointerKey(), domain.SENTINEL_UPLOAD_FAILED, txHash, s.chain); sentinelErr != nil {
			logger.ErrorCtx(ctx, "failed to record upload-failed sentinel",
				zap.String("pointerKey", collection.PointerKey()), zap.Error(sentinelErr))
		}
		return nil, op.fail(StageUploadDocument, err)
	}

	if err := s.pointers.SetPointer(ctx, collection.PointerKey(), contentRef, txHash, s.chain); err != nil {
		return nil, op.fail(StageRecord, err)
	}
	op.to(StateRecorded)

	s.publish(ctx, domain.SyncEventCollectionCreated, collection.PointerKey(), contentRef, txHash)
	op.to(StateDone)

	return &CreateCollectionResult{
		OperationID: op.id,
		Collection:  collection,
		TxHash:      txHash,
		ContentRef:  contentRef,
		AssetRefs:   op.assetRefs,
	}, nil
}

// MintInput carries the fields for a token mint
type MintInput struct {
	Collection  domain.CollectionID
	Name        string
	Description string
	Image       *Asset
	Attributes  []metadata.Attribute
	// OwnerWallet defaults to the gateway signer address
	OwnerWallet string
}

// MintResult reports a completed mint
type MintResult struct {
	OperationID string
	Token       domain.TokenID
	TxHash      string
	ContentRef  string
	AssetRefs   []string
}

// MintToken uploads the token's asset and metadata document, then mints with
// the document's reference as calldata. The document is composed before
// submission because the mint call takes the metadata URI; its synthesized
// minted event therefore carries an empty transaction hash placeholder.
func (s *Synchronizer) MintToken(ctx context.Context, in MintInput) (*MintResult, error) {
	if !in.Collection.Valid() {
		return nil, domain.NewValidationError("collection", "not a well-formed chain address")
	}

	owner := in.OwnerWallet
	if owner == "" {
		owner = s.gateway.SignerAddress()
	}

	op := newOperation(uuid.NewString(), "mint-token")

	// The token number is assigned by the contract at mint time; reading it
	// up front pins the identity the document and pointer key are written
	// under.
	state, err := s.gateway.CollectionState(ctx, in.Collection)
	if err != nil {
		return nil, op.fail(StageResolveIdentity, err)
	}
	token := domain.NewTokenID(in.Collection, state.NextTokenID)
	op.entity = token.String()

	op.to(StateUploadingAssets)
	imageRef, err := s.uploadAsset(ctx, op, in.Image)
	if err != nil {
		return nil, op.fail(StageUploadAssets, err)
	}

	doc, err := s.codec.ComposeNFTDocument(metadata.NFTInput{
		Name:            in.Name,
		Description:     in.Description,
		ImageRef:        imageRef,
		ContractAddress: in.Collection.String(),
		TokenID:         token.Number,
		OwnerWallet:     owner,
		Attributes:      in.Attributes,
	})
	if err != nil {
		return nil, op.fail(StageUploadDocument, err)
	}

	op.to(StateUploadingDocument)
	contentRef, err := s.content.UploadJSON(ctx, "token.json", doc)
	if err != nil {
		return nil, op.fail(StageUploadDocument, err)
	}

	op.to(StateSubmitting)
	txHash, err := s.gateway.SubmitMint(ctx, in.Collection, contentRef)
	if err != nil {
		return nil, op.fail(StageSubmit, err)
	}

	if _, err := s.gateway.AwaitConfirmation(ctx, txHash); err != nil {
		return nil, op.fail(StageSubmit, err)
	}
	op.to(StateConfirmed)

	if err := s.pointers.SetPointer(ctx, token.PointerKey(), contentRef, txHash, s.chain); err != nil {
		return nil, op.fail(StageRecord, err)
	}
	op.to(StateRecorded)

	s.cacheDocument(ctx, contentRef, doc)
	s.publish(ctx, domain.SyncEventTokenMinted, token.PointerKey(), contentRef, txHash)
	op.to(StateDone)

	return &MintResult{
		OperationID: op.id,
		Token:       token,
		TxHash:      txHash,
		ContentRef:  contentRef,
		AssetRefs:   op.assetRefs,
	}, nil
}

// BurnResult reports a completed burn
type BurnResult struct {
	OperationID string
	Token       domain.TokenID
	TxHash      string
}

// BurnToken burns a token and removes its pointer. The metadata document
// stays in the content store; only the pointer is dropped.
func (s *Synchronizer) BurnToken(ctx context.Context, token domain.TokenID) (*BurnResult, error) {
	if !token.Valid() {
		return nil, domain.NewValidationError("token", "not a well-formed token identifier")
	}

	op := newOperation(uuid.NewString(), "burn-token")
	op.entity = token.String()

	op.to(StateSubmitting)
	txHash, err := s.gateway.SubmitBurn(ctx, token.Collection, token.Number)
	if err != nil {
		return nil, op.fail(StageSubmit, err)
	}

	if _, err := s.gateway.AwaitConfirmation(ctx, txHash); err != nil {
		return nil, op.fail(StageSubmit, err)
	}
	op.to(StateConfirmed)

	if err := s.pointers.DeletePointer(ctx, token.PointerKey()); err != nil {
		return nil, op.fail(StageRecord, err)
	}
	op.to(StateRecorded)

	s.publish(ctx, domain.SyncEventTokenBurned, token.PointerKey(), "", txHash)
	op.to(StateDone)

	return &BurnResult{OperationID: op.id, Token: token, TxHash: txHash}, nil
}

// resolveCreatedCollection determines the address of a freshly deployed
// collection: first from the creation event in the receipt, then by listing
// the creator's collections and taking the newest address that was not known
// before submission. A listing with no new address means the identity cannot
// be established; the pointer table is left untouched.
func (s *Synchronizer) resolveCreatedCollection(ctx context.Context, receipt *types.Receipt, creator string, known []domain.CollectionID) (domain.CollectionID, error) {
	collection, err := s.gateway.ResolveCreatedCollection(receipt)
	if err == nil {
		return collection, nil
	}
	if !errors.Is(err, domain.ErrEntityNotFound) {
		return "", err
	}

	logger.WarnCtx(ctx, "creation receipt carries no creation event, falling back to creator listing",
		zap.String("creator", creator))

	collections, err := s.gateway.CollectionsByCreator(ctx, creator)
	if err != nil {
		return "", err
	}

	seen := make(map[domain.CollectionID]struct{}, len(known))
	for _, c := range known {
		seen[c] = struct{}{}
	}
	for i := len(collections) - 1; i >= 0; i-- {
		if _, ok := seen[collections[i]]; !ok {
			return collections[i], nil
		}
	}
	return "", domain.ErrEntityNotFound
}

// uploadAsset uploads an optional asset and records its reference on the
// operation. A nil asset resolves to an empty reference.
func (s *Synchronizer) uploadAsset(ctx context.Context, op *operation, asset *Asset) (string, error) {
	if asset == nil {
		return "", nil
	}

	ref, err := s.content.Upload(ctx, asset.Filename, asset.Data)
	if err != nil {
		return "", err
	}

	op.addAssetRef(ref)
	return ref, nil
}

// cacheDocument stores a composed document in the cache. Cache failures are
// logged and ignored; the content store holds the authoritative copy.
func (s *Synchronizer) cacheDocument(ctx context.Context, contentRef string, doc *metadata.NFTDocument) {
	hash, err := doc.CanonicalHash()
	if err != nil {
		logger.WarnCtx(ctx, "failed to hash document for caching", zap.Error(err))
		return
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		logger.WarnCtx(ctx, "failed to marshal document for caching", zap.Error(err))
		return
	}

	if err := s.cache.CacheDocument(ctx, contentRef, hash, raw); err != nil {
		logger.WarnCtx(ctx, "failed to cache document", zap.String("contentRef", contentRef), zap.Error(err))
	}
}

// publish broadcasts a synchronization event. Publishing is best-effort: a
// failed publish is logged, never surfaced to the caller.
func (s *Synchronizer) publish(ctx context.Context, kind domain.SyncEventKind, pointerKey, contentRef, txHash string) {
	if s.publisher == nil {
		return
	}

	event := &domain.SyncEvent{
		Kind:       kind,
		Chain:      s.chain,
		PointerKey: pointerKey,
		ContentRef: contentRef,
		TxHash:     txHash,
		Timestamp:  s.clock.Now(),
	}

	if err := s.publisher.PublishSyncEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "failed to publish sync event",
			zap.String("kind", string(kind)),
			zap.String("pointerKey", pointerKey),
			zap.Error(err))
	}
}
