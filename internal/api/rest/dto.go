package rest

import (
	"github.com/mosaic-market/metadata-sync/internal/metadata"
	syncer "github.com/mosaic-market/metadata-sync/internal/sync"
)

// assetDTO is a file carried inline in a request body. Data is base64 in
// JSON per encoding/json []byte handling.
type assetDTO struct {
	Filename string `json:"filename" binding:"required"`
	Data     []byte `json:"data" binding:"required"`
}

func (a *assetDTO) toAsset() *syncer.Asset {
	if a == nil {
		return nil
	}
	return &syncer.Asset{Filename: a.Filename, Data: a.Data}
}

// createCollectionRequest is the body of POST /collections
type createCollectionRequest struct {
	Name          string    `json:"name" binding:"required"`
	Symbol        string    `json:"symbol" binding:"required"`
	Description   string    `json:"description"`
	Tags          []string  `json:"tags"`
	ProfileImage  *assetDTO `json:"profile_image"`
	BannerImage   *assetDTO `json:"banner_image"`
	CreatorWallet string    `json:"creator_wallet"`
}

// createCollectionResponse is the body of a successful collection creation
type createCollectionResponse struct {
	OperationID string   `json:"operation_id"`
	Collection  string   `json:"collection"`
	TxHash      string   `json:"tx_hash"`
	ContentRef  string   `json:"content_ref"`
	AssetRefs   []string `json:"asset_refs,omitempty"`
}

// mintTokenRequest is the body of POST /collections/:address/tokens, and one
// item of a batch mint
type mintTokenRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Image       *assetDTO            `json:"image"`
	Attributes  []metadata.Attribute `json:"attributes"`
	OwnerWallet string               `json:"owner_wallet"`
}

// mintTokenResponse is the body of a successful mint
type mintTokenResponse struct {
	OperationID string   `json:"operation_id"`
	Collection  string   `json:"collection"`
	TokenNumber string   `json:"token_number"`
	TxHash      string   `json:"tx_hash"`
	ContentRef  string   `json:"content_ref"`
	AssetRefs   []string `json:"asset_refs,omitempty"`
}

// batchMintRequest is the body of POST /collections/:address/tokens/batch
type batchMintRequest struct {
	Items []mintTokenRequest `json:"items" binding:"required"`
}

// batchMintResponse is the body of a successful batch mint
type batchMintResponse struct {
	OperationID string              `json:"operation_id"`
	Minted      []mintTokenResponse `json:"minted"`
}

// burnTokenResponse is the body of a successful burn
type burnTokenResponse struct {
	OperationID string `json:"operation_id"`
	Collection  string `json:"collection"`
	TokenNumber string `json:"token_number"`
	TxHash      string `json:"tx_hash"`
}

// listTokenRequest is the body of POST /.../listing
type listTokenRequest struct {
	Price string `json:"price" binding:"required"`
}

// addOfferRequest is the body of POST /.../offers
type addOfferRequest struct {
	OfferAddress string `json:"offer_address" binding:"required"`
	Price        string `json:"price" binding:"required"`
}

// transferRequest is the body of POST /.../transfer
type transferRequest struct {
	NewOwner string `json:"new_owner" binding:"required"`
	Price    string `json:"price"`
	TxHash   string `json:"tx_hash"`
}

// updateResponse is the body of a successful document update
type updateResponse struct {
	OperationID string `json:"operation_id"`
	Collection  string `json:"collection"`
	TokenNumber string `json:"token_number"`
	ContentRef  string `json:"content_ref"`
}

// collectionEntryDTO pairs a collection address with its document
type collectionEntryDTO struct {
	Collection string                       `json:"collection"`
	Document   *metadata.CollectionDocument `json:"document,omitempty"`
}
