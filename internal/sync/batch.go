package sync

import (
	"context"
	"fmt"
	"math/big"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/logger"
	"github.com/mosaic-market/metadata-sync/internal/metadata"
)

// BatchMintItem is one token of a batch mint
type BatchMintItem struct {
	Name        string
	Description string
	Image       *Asset
	Attributes  []metadata.Attribute
	// OwnerWallet defaults to the gateway signer address
	OwnerWallet string
}

// MintedToken reports one successfully minted token of a batch
type MintedToken struct {
	Token      domain.TokenID
	TxHash     string
	ContentRef string
}

// BatchMintResult reports a batch mint. Minted lists the tokens that made it
// on-chain; on failure it holds the tokens minted before the batch aborted.
type BatchMintResult struct {
	OperationID string
	Minted      []MintedToken
	AssetRefs   []string
}

// preparedMint is a batch item with its document already in the content store
type preparedMint struct {
	index      int
	token      domain.TokenID
	contentRef string
	assetRef   string
	doc        *metadata.NFTDocument
}

// BatchMint mints a run of tokens in one operation. Uploads run concurrently
// on a worker pool; the mint transactions run sequentially because token
// numbers are assigned by submission order. Any failure aborts the batch:
// token numbers for later items would no longer match their uploaded
// documents.
func (s *Synchronizer) BatchMint(ctx context.Context, collection domain.CollectionID, items []BatchMintItem, maxWorkers int) (*BatchMintResult, error) {
	if !collection.Valid() {
		return nil, domain.NewValidationError("collection", "not a well-formed chain address")
	}
	if len(items) == 0 {
		return nil, domain.NewValidationError("items", "must not be empty")
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	op := newOperation(uuid.NewString(), "batch-mint")
	op.entity = collection.String()

	state, err := s.gateway.CollectionState(ctx, collection)
	if err != nil {
		return nil, op.fail(StageResolveIdentity, err)
	}
	base, ok := new(big.Int).SetString(state.NextTokenID, 10)
	if !ok {
		return nil, op.fail(StageResolveIdentity, fmt.Errorf("collection reports malformed next token id %q", state.NextTokenID))
	}

	op.to(StateUploadingAssets)
	prepared, err := s.prepareBatch(ctx, op, collection, items, base, maxWorkers)
	if err != nil {
		return nil, err
	}

	op.to(StateSubmitting)
	minted := make([]MintedToken, 0, len(prepared))
	for _, item := range prepared {
		txHash, err := s.gateway.SubmitMint(ctx, collection, item.contentRef)
		if err != nil {
			return &BatchMintResult{OperationID: op.id, Minted: minted, AssetRefs: op.assetRefs},
				op.fail(StageSubmit, fmt.Errorf("item %d: %w", item.index, err))
		}

		if _, err := s.gateway.AwaitConfirmation(ctx, txHash); err != nil {
			return &BatchMintResult{OperationID: op.id, Minted: minted, AssetRefs: op.assetRefs},
				op.fail(StageSubmit, fmt.Errorf("item %d: %w", item.index, err))
		}

		if err := s.pointers.SetPointer(ctx, item.token.PointerKey(), item.contentRef, txHash, s.chain); err != nil {
			return &BatchMintResult{OperationID: op.id, Minted: minted, AssetRefs: op.assetRefs},
				op.fail(StageRecord, fmt.Errorf("item %d: %w", item.index, err))
		}

		s.cacheDocument(ctx, item.contentRef, item.doc)
		s.publish(ctx, domain.SyncEventTokenMinted, item.token.PointerKey(), item.contentRef, txHash)
		minted = append(minted, MintedToken{Token: item.token, TxHash: txHash, ContentRef: item.contentRef})
	}
	op.to(StateRecorded)

	logger.InfoCtx(ctx, "batch mint complete",
		zap.String("collection", collection.String()),
		zap.Int("tokens", len(minted)))
	op.to(StateDone)

	return &BatchMintResult{OperationID: op.id, Minted: minted, AssetRefs: op.assetRefs}, nil
}

// prepareBatch uploads every item's asset and document concurrently. Token
// numbers are assigned up front from the collection's next token id.
func (s *Synchronizer) prepareBatch(ctx context.Context, op *operation, collection domain.CollectionID, items []BatchMintItem, base *big.Int, maxWorkers int) ([]preparedMint, error) {
	pool := pond.NewResultPool[preparedMint](maxWorkers)
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	for i, item := range items {
		number := new(big.Int).Add(base, big.NewInt(int64(i))).String()
		group.SubmitErr(s.prepareTask(ctx, collection, item, i, number))
	}

	prepared, err := group.Wait()
	for _, item := range prepared {
		if item.assetRef != "" {
			op.addAssetRef(item.assetRef)
		}
	}
	if err != nil {
		return nil, op.fail(StageUploadDocument, err)
	}

	return prepared, nil
}

func (s *Synchronizer) prepareTask(ctx context.Context, collection domain.CollectionID, item BatchMintItem, index int, number string) func() (preparedMint, error) {
	return func() (preparedMint, error) {
		owner := item.OwnerWallet
		if owner == "" {
			owner = s.gateway.SignerAddress()
		}

		var imageRef string
		if item.Image != nil {
			ref, err := s.content.Upload(ctx, item.Image.Filename, item.Image.Data)
			if err != nil {
				return preparedMint{}, fmt.Errorf("item %d: %w", index, err)
			}
			imageRef = ref
		}

		doc, err := s.codec.ComposeNFTDocument(metadata.NFTInput{
			Name:            item.Name,
			Description:     item.Description,
			ImageRef:        imageRef,
			ContractAddress: collection.String(),
			TokenID:         number,
			OwnerWallet:     owner,
			Attributes:      item.Attributes,
		})
		if err != nil {
			return preparedMint{}, fmt.Errorf("item %d: %w", index, err)
		}

		contentRef, err := s.content.UploadJSON(ctx, "token.json", doc)
		if err != nil {
			return preparedMint{}, fmt.Errorf("item %d: %w", index, err)
		}

		return preparedMint{
			index:      index,
			token:      domain.NewTokenID(collection, number),
			contentRef: contentRef,
			assetRef:   imageRef,
			doc:        doc,
		}, nil
	}
}
