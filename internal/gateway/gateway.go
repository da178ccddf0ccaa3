package gateway

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mosaic-market/metadata-sync/internal/domain"
)

// CollectionState is the on-chain view of a collection contract
type CollectionState struct {
	Name        string
	Symbol      string
	Owner       string
	NextTokenID string
}

// TokenState is the on-chain view of a single token. Owner is authoritative;
// the owner field cached in metadata documents is derived from it.
type TokenState struct {
	Owner       string
	MetadataURI string
}

// Gateway abstracts the marketplace contracts. Submit methods sign and send a
// transaction and return its hash without waiting for inclusion; confirmation
// is a separate step so callers can attribute failures to the right stage.
//
//go:generate mockgen -source=gateway.go -destination=../mocks/gateway.go -package=mocks -mock_names=Gateway=MockGateway
type Gateway interface {
	// SubmitCreateCollection deploys a new collection through the factory
	SubmitCreateCollection(ctx context.Context, name, symbol string) (string, error)

	// SubmitMint mints the next token of a collection with the given metadata URI
	SubmitMint(ctx context.Context, collection domain.CollectionID, metadataURI string) (string, error)

	// SubmitBurn burns a token of a collection
	SubmitBurn(ctx context.Context, collection domain.CollectionID, tokenNumber string) (string, error)

	// AwaitConfirmation polls until the transaction is mined or the
	// confirmation window elapses. A reverted transaction is a
	// ConfirmationError, not a success with a bad receipt.
	AwaitConfirmation(ctx context.Context, txHash string) (*types.Receipt, error)

	// ResolveCreatedCollection extracts the deployed collection address from
	// a creation receipt. Returns ErrEntityNotFound when the receipt carries
	// no recognizable creation event.
	ResolveCreatedCollection(receipt *types.Receipt) (domain.CollectionID, error)

	// CollectionsByCreator lists the collections deployed by a wallet, in
	// creation order
	CollectionsByCreator(ctx context.Context, creator string) ([]domain.CollectionID, error)

	// CollectionState reads the on-chain state of a collection
	CollectionState(ctx context.Context, collection domain.CollectionID) (*CollectionState, error)

	// TokenState reads the on-chain state of a token
	TokenState(ctx context.Context, token domain.TokenID) (*TokenState, error)

	// SignerAddress returns the address transactions are signed with
	SignerAddress() string
}
