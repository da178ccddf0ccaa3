package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// TransactionType represents the type of a metadata history event
type TransactionType string

const (
	TransactionMinted   TransactionType = "minted"
	TransactionTransfer TransactionType = "transfer"
	TransactionListed   TransactionType = "listed"
	TransactionSold     TransactionType = "sold"
	TransactionDelisted TransactionType = "delisted"
)

// Attribute is a single trait of an NFT. Ordering is preserved insertion
// order and is significant for display, not for equality. Duplicates are
// permitted.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
	Rarity    string `json:"rarity,omitempty"`
}

// Transaction is one event in an NFT's append-only history. Timestamps are
// milliseconds since epoch. Prices are denominated in ETH.
type Transaction struct {
	Type      TransactionType `json:"type"`
	From      string          `json:"from,omitempty"`
	To        string          `json:"to,omitempty"`
	Price     string          `json:"price,omitempty"`
	Timestamp int64           `json:"timestamp"`
	TxHash    string          `json:"txHash"`
}

// Offer is a standing offer on an NFT
type Offer struct {
	OfferAddress string `json:"offerAddress"`
	Price        string `json:"price"`
	Timestamp    int64  `json:"timestamp"`
}

// CollectionDocument is the metadata document for a deployed collection.
// Image fields hold content references (e.g. ipfs://<cid>).
type CollectionDocument struct {
	Name            string   `json:"name"`
	Symbol          string   `json:"symbol"`
	Description     string   `json:"description"`
	ProfileImage    string   `json:"profileImage"`
	BannerImage     string   `json:"bannerImage"`
	Tags            []string `json:"tags"`
	ContractAddress string   `json:"contractAddress"`
	TotalSupply     uint64   `json:"totalSupply"`
	CreatorWallet   string   `json:"creatorWallet"`
}

// NFTDocument is the metadata document for a single NFT. The owner field is
// a cache; the authoritative owner lives on-chain.
type NFTDocument struct {
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Image           string      `json:"image"`
	ContractAddress string      `json:"contractAddress"`
	TokenID         string      `json:"tokenId"`
	OwnerWallet     string      `json:"ownerWallet"`
	Attributes      []Attribute `json:"attributes"`

	// Listing information (optional)
	CurrentListingPrice string  `json:"currentListingPrice,omitempty"`
	PreviousPrice       string  `json:"previousPrice,omitempty"`
	Offers              []Offer `json:"offers,omitempty"`

	// Transaction history, append-only across the document lineage
	Transactions []Transaction `json:"transactions"`
}

// CanonicalHash returns the hex-encoded SHA-256 of the JCS-canonicalized
// document, used to detect changes and skip redundant cache updates.
func (d *NFTDocument) CanonicalHash() (string, error) {
	return canonicalHash(d)
}

// CanonicalHash returns the hex-encoded SHA-256 of the JCS-canonicalized
// document
func (d *CollectionDocument) CanonicalHash() (string, error) {
	return canonicalHash(d)
}

func canonicalHash(doc interface{}) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize document: %w", err)
	}

	hash := sha256.Sum256(canonical)
	return hex.EncodeToString(hash[:]), nil
}
