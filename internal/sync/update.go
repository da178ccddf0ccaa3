package sync

import (
	"context"

	"github.com/google/uuid"

	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/metadata"
)

// UpdateResult reports a completed document update. Updates are off-chain:
// they create a new document version and repoint the pointer table entry.
type UpdateResult struct {
	OperationID string
	Token       domain.TokenID
	ContentRef  string
}

// ListToken marks a token as listed at the given price and appends a listed
// event to its history
func (s *Synchronizer) ListToken(ctx context.Context, token domain.TokenID, price string) (*UpdateResult, error) {
	if price == "" {
		return nil, domain.NewValidationError("price", "must not be empty")
	}

	return s.updateToken(ctx, "list-token", token, func(doc metadata.NFTDocument) metadata.NFTDocument {
		event := metadata.Transaction{
			Type:      metadata.TransactionListed,
			From:      doc.OwnerWallet,
			Price:     price,
			Timestamp: s.clock.Now().UnixMilli(),
		}
		return metadata.WithListing(doc, price, doc.PreviousPrice, &event)
	})
}

// DelistToken clears a token's listing and appends a delisted event. The
// prior listing price is kept as the previous price.
func (s *Synchronizer) DelistToken(ctx context.Context, token domain.TokenID) (*UpdateResult, error) {
	return s.updateToken(ctx, "delist-token", token, func(doc metadata.NFTDocument) metadata.NFTDocument {
		event := metadata.Transaction{
			Type:      metadata.TransactionDelisted,
			From:      doc.OwnerWallet,
			Timestamp: s.clock.Now().UnixMilli(),
		}
		return metadata.WithListing(doc, "", doc.CurrentListingPrice, &event)
	})
}

// AddOffer appends a standing offer to a token's document
func (s *Synchronizer) AddOffer(ctx context.Context, token domain.TokenID, offerAddress, price string) (*UpdateResult, error) {
	if !domain.CollectionID(offerAddress).Valid() {
		return nil, domain.NewValidationError("offerAddress", "not a well-formed chain address")
	}
	if price == "" {
		return nil, domain.NewValidationError("price", "must not be empty")
	}

	return s.updateToken(ctx, "add-offer", token, func(doc metadata.NFTDocument) metadata.NFTDocument {
		return metadata.WithOffer(doc, metadata.Offer{
			OfferAddress: offerAddress,
			Price:        price,
			Timestamp:    s.clock.Now().UnixMilli(),
		})
	})
}

// TransferOwner records an ownership change: the cached owner is replaced,
// the listing and offers are cleared, and a transfer or sold event is
// appended depending on whether a price is given.
func (s *Synchronizer) TransferOwner(ctx context.Context, token domain.TokenID, newOwner, price, txHash string) (*UpdateResult, error) {
	if !domain.CollectionID(newOwner).Valid() {
		return nil, domain.NewValidationError("newOwner", "not a well-formed chain address")
	}
	if domain.SameAddress(newOwner, domain.ETHEREUM_ZERO_ADDRESS) {
		return nil, domain.NewValidationError("newOwner", "transfers to the zero address are burns")
	}

	eventType := metadata.TransactionTransfer
	if price != "" {
		eventType = metadata.TransactionSold
	}

	return s.updateToken(ctx, "transfer-owner", token, func(doc metadata.NFTDocument) metadata.NFTDocument {
		return metadata.WithTransfer(doc, newOwner, metadata.Transaction{
			Type:      eventType,
			From:      doc.OwnerWallet,
			To:        newOwner,
			Price:     price,
			Timestamp: s.clock.Now().UnixMilli(),
			TxHash:    txHash,
		})
	})
}

// updateToken loads the token's current document, applies the update, uploads
// the new version and repoints the pointer. Concurrent updates race on the
// pointer with last-write-wins; both document versions stay retrievable.
func (s *Synchronizer) updateToken(ctx context.Context, name string, token domain.TokenID, apply func(metadata.NFTDocument) metadata.NFTDocument) (*UpdateResult, error) {
	if !token.Valid() {
		return nil, domain.NewValidationError("token", "not a well-formed token identifier")
	}

	op := newOperation(uuid.NewString(), name)
	op.entity = token.String()

	current, err := s.Token(ctx, token)
	if err != nil {
		return nil, err
	}

	updated := apply(*current)

	op.to(StateUploadingDocument)
	contentRef, err := s.content.UploadJSON(ctx, "token.json", &updated)
	if err != nil {
		return nil, op.fail(StageUploadDocument, err)
	}

	if err := s.pointers.SetPointer(ctx, token.PointerKey(), contentRef, "", s.chain); err != nil {
		return nil, op.fail(StageRecord, err)
	}
	op.to(StateRecorded)

	s.cacheDocument(ctx, contentRef, &updated)
	s.publish(ctx, domain.SyncEventPointerUpdated, token.PointerKey(), contentRef, "")
	op.to(StateDone)

	return &UpdateResult{OperationID: op.id, Token: token, ContentRef: contentRef}, nil
}
