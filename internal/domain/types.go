package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
)

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	return chain == ChainEthereumMainnet || chain == ChainEthereumSepolia
}

// CollectionID identifies a deployed collection contract. The address is
// unique and immutable once deployed.
type CollectionID string

// String returns the string representation of the CollectionID
func (c CollectionID) String() string {
	return string(c)
}

// Valid checks that the identifier is a well-formed chain address
func (c CollectionID) Valid() bool {
	return common.IsHexAddress(string(c))
}

// PointerKey returns the pointer table key for the collection's metadata
func (c CollectionID) PointerKey() string {
	return COLLECTION_POINTER_PREFIX + NormalizeAddress(string(c))
}

// TokenID identifies an NFT as a (collection address, token number) pair.
// Token numbers are assigned by the chain as a monotonically increasing
// integer starting at 0.
type TokenID struct {
	Collection CollectionID `json:"collection"`
	Number     string       `json:"number"`
}

// NewTokenID creates a new TokenID
func NewTokenID(collection CollectionID, number string) TokenID {
	return TokenID{Collection: collection, Number: number}
}

// String returns the canonical string form of the TokenID
func (t TokenID) String() string {
	return fmt.Sprintf("%s:%s", t.Collection, t.Number)
}

// Valid checks the collection address and the token number
func (t TokenID) Valid() bool {
	if !t.Collection.Valid() {
		return false
	}
	return validTokenNumber(t.Number)
}

// PointerKey returns the pointer table key for the token's metadata
func (t TokenID) PointerKey() string {
	return fmt.Sprintf("%s%s_%s", TOKEN_POINTER_PREFIX, NormalizeAddress(string(t.Collection)), t.Number)
}

// SyncEventKind represents the kind of synchronization event broadcast after
// a pointer table change
type SyncEventKind string

const (
	SyncEventCollectionCreated SyncEventKind = "collection_created"
	SyncEventTokenMinted       SyncEventKind = "token_minted"
	SyncEventTokenBurned       SyncEventKind = "token_burned"
	SyncEventPointerUpdated    SyncEventKind = "pointer_updated"
)

// SyncEvent is the normalized notification published after the pointer table
// changes, so other marketplace services can refresh their view.
type SyncEvent struct {
	Kind       SyncEventKind `json:"kind"`
	Chain      Chain         `json:"chain"`
	PointerKey string        `json:"pointer_key"`
	ContentRef string        `json:"content_ref,omitempty"` // empty for burns
	TxHash     string        `json:"tx_hash,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// Valid checks the event has a kind and a pointer key
func (e *SyncEvent) Valid() bool {
	switch e.Kind {
	case SyncEventCollectionCreated, SyncEventTokenMinted, SyncEventTokenBurned, SyncEventPointerUpdated:
	default:
		return false
	}
	return e.PointerKey != ""
}

// NormalizeAddress normalizes an address to the checksummed format used by
// the blockchain
func NormalizeAddress(address string) string {
	if strings.HasPrefix(address, "0x") {
		return common.HexToAddress(address).String()
	}
	return address
}

// SameAddress compares two addresses ignoring checksum casing
func SameAddress(a, b string) bool {
	return strings.EqualFold(a, b)
}

// validTokenNumber checks if a token number is a non-empty decimal string
func validTokenNumber(tokenNumber string) bool {
	if tokenNumber == "" {
		return false
	}
	for _, r := range tokenNumber {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
