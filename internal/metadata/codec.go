package metadata

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mosaic-market/metadata-sync/internal/adapter"
	"github.com/mosaic-market/metadata-sync/internal/domain"
)

// CollectionInput carries the caller-supplied fields for a collection
// document. Image fields are content references produced by a prior asset
// upload.
type CollectionInput struct {
	Name            string
	Symbol          string
	Description     string
	ProfileImageRef string
	BannerImageRef  string
	Tags            []string
	ContractAddress string
	TotalSupply     uint64
	CreatorWallet   string
}

// NFTInput carries the caller-supplied fields for an NFT document
type NFTInput struct {
	Name            string
	Description     string
	ImageRef        string
	ContractAddress string
	TokenID         string
	OwnerWallet     string
	Attributes      []Attribute
	// Transactions, when nil, is synthesized as a single "minted" event
	Transactions []Transaction
}

// Codec composes and validates metadata documents
type Codec struct {
	clock adapter.Clock
}

// NewCodec creates a new metadata codec
func NewCodec(clock adapter.Clock) *Codec {
	return &Codec{clock: clock}
}

// ComposeCollectionDocument validates the input and produces a collection
// document. Tags are lowercased and deduplicated preserving first-seen order.
func (c *Codec) ComposeCollectionDocument(in CollectionInput) (*CollectionDocument, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "must not be empty")
	}
	if strings.TrimSpace(in.Symbol) == "" {
		return nil, domain.NewValidationError("symbol", "must not be empty")
	}
	if !common.IsHexAddress(in.ContractAddress) {
		return nil, domain.NewValidationError("contractAddress", "not a well-formed chain address")
	}
	if in.CreatorWallet != "" && !common.IsHexAddress(in.CreatorWallet) {
		return nil, domain.NewValidationError("creatorWallet", "not a well-formed chain address")
	}

	return &CollectionDocument{
		Name:            in.Name,
		Symbol:          in.Symbol,
		Description:     in.Description,
		ProfileImage:    in.ProfileImageRef,
		BannerImage:     in.BannerImageRef,
		Tags:            NormalizeTags(in.Tags),
		ContractAddress: in.ContractAddress,
		TotalSupply:     in.TotalSupply,
		CreatorWallet:   in.CreatorWallet,
	}, nil
}

// ComposeNFTDocument validates the input and produces an NFT document. When
// no transaction history is supplied, a single "minted" event is synthesized
// with the current time and an empty transaction hash placeholder: the hash
// is unknown until the mint confirms, and the document must exist before
// submission because the mint call takes the metadata URI as calldata.
func (c *Codec) ComposeNFTDocument(in NFTInput) (*NFTDocument, error) {
	if !common.IsHexAddress(in.ContractAddress) {
		return nil, domain.NewValidationError("contractAddress", "not a well-formed chain address")
	}
	if !common.IsHexAddress(in.OwnerWallet) {
		return nil, domain.NewValidationError("ownerWallet", "not a well-formed chain address")
	}
	if !domain.NewTokenID(domain.CollectionID(in.ContractAddress), in.TokenID).Valid() {
		return nil, domain.NewValidationError("tokenId", "must be a decimal token number")
	}

	transactions := cloneTransactions(in.Transactions)
	if transactions == nil {
		transactions = []Transaction{
			{
				Type:      TransactionMinted,
				To:        in.OwnerWallet,
				Timestamp: c.clock.Now().UnixMilli(),
				TxHash:    "",
			},
		}
	}

	return &NFTDocument{
		Name:            in.Name,
		Description:     in.Description,
		Image:           in.ImageRef,
		ContractAddress: in.ContractAddress,
		TokenID:         in.TokenID,
		OwnerWallet:     in.OwnerWallet,
		Attributes:      append([]Attribute(nil), in.Attributes...),
		Transactions:    transactions,
	}, nil
}

// NormalizeTags lowercases tags and removes duplicates, preserving first-seen
// order. Normalization is idempotent.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		normalized = append(normalized, t)
	}
	return normalized
}
