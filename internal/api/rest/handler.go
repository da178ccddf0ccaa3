package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mosaic-market/metadata-sync/internal/domain"
	syncer "github.com/mosaic-market/metadata-sync/internal/sync"
)

// Handler handles REST API requests
type Handler struct {
	sync          *syncer.Synchronizer
	batchPoolSize int
}

// NewHandler creates a new REST API handler
func NewHandler(sync *syncer.Synchronizer, batchPoolSize int) Handler {
	return Handler{sync: sync, batchPoolSize: batchPoolSize}
}

// HealthCheck handles GET /health
func (h Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateCollection handles POST /api/v1/collections
func (h Handler) CreateCollection(c *gin.Context) {
	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	result, err := h.sync.CreateCollection(c.Request.Context(), syncer.CreateCollectionInput{
		Name:          req.Name,
		Symbol:        req.Symbol,
		Description:   req.Description,
		Tags:          req.Tags,
		ProfileImage:  req.ProfileImage.toAsset(),
		BannerImage:   req.BannerImage.toAsset(),
		CreatorWallet: req.CreatorWallet,
	})
	if err != nil {
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createCollectionResponse{
		OperationID: result.OperationID,
		Collection:  result.Collection.String(),
		TxHash:      result.TxHash,
		ContentRef:  result.ContentRef,
		AssetRefs:   result.AssetRefs,
	})
}

// GetCollection handles GET /api/v1/collections/:address
func (h Handler) GetCollection(c *gin.Context) {
	collection, ok := collectionParam(c)
	if !ok {
		return
	}

	doc, err := h.sync.Collection(c.Request.Context(), collection)
	if err != nil {
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// ListCollectionTokens handles GET /api/v1/collections/:address/tokens
func (h Handler) ListCollectionTokens(c *gin.Context) {
	collection, ok := collectionParam(c)
	if !ok {
		return
	}

	docs, err := h.sync.Tokens(c.Request.Context(), collection)
	if err != nil {
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": docs})
}

// ListCreatorCollections handles GET /api/v1/creators/:address/collections
func (h Handler) ListCreatorCollections(c *gin.Context) {
	creator := c.Param("address")
	if !domain.CollectionID(creator).Valid() {
		respondBadRequest(c, "Invalid creator address")
		return
	}

	entries, err := h.sync.CollectionsOf(c.Request.Context(), creator)
	if err != nil {
		respondSyncError(c, err)
		return
	}

	out := make([]collectionEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, collectionEntryDTO{
			Collection: entry.Collection.String(),
			Document:   entry.Document,
		})
	}

	c.JSON(http.StatusOK, gin.H{"collections": out})
}

// MintToken handles POST /api/v1/collections/:address/tokens
func (h Handler) MintToken(c *gin.Context) {
	collection, ok := collectionParam(c)
	if !ok {
		return
	}

	var req mintTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	result, err := h.sync.MintToken(c.Request.Context(), syncer.MintInput{
		Collection:  collection,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image.toAsset(),
		Attributes:  req.Attributes,
		OwnerWallet: req.OwnerWallet,
	})
	if err != nil {
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mintTokenResponse{
		OperationID: result.OperationID,
		Collection:  result.Token.Collection.String(),
		TokenNumber: result.Token.Number,
		TxHash:      result.TxHash,
		ContentRef:  result.ContentRef,
		AssetRefs:   result.AssetRefs,
	})
}

// BatchMint handles POST /api/v1/collections/:address/tokens/batch
func (h Handler) BatchMint(c *gin.Context) {
	collection, ok := collectionParam(c)
	if !ok {
		return
	}

	var req batchMintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	items := make([]syncer.BatchMintItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, syncer.BatchMintItem{
			Name:        item.Name,
			Description: item.Description,
			Image:       item.Image.toAsset(),
			Attributes:  item.Attributes,
			OwnerWallet: item.OwnerWallet,
		})
	}

	result, err := h.sync.BatchMint(c.Request.Context(), collection, items, h.batchPoolSize)
	if err != nil {
		respondSyncError(c, err)
		return
	}

	minted := make([]mintTokenResponse, 0, len(result.Minted))
	for _, token := range result.Minted {
		minted = append(minted, mintTokenResponse{
			Collection:  token.Token.Collection.String(),
			TokenNumber: token.Token.Number,
			TxHash:      token.TxHash,
			ContentRef:  token.ContentRef,
		})
	}

	c.JSON(http.StatusCreated, batchMintResponse{
		OperationID: result.OperationID,
		Minted:      minted,
	})
}

// GetToken handles GET /api/v1/collections/:address/tokens/:number
func (h Handler) GetToken(c *gin.Context) {
	token, ok := tokenParam(c)
	if !ok {
		return
	}

	doc, err := h.sync.Token(c.Request.Context(), token)
	if err != nil {
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// BurnToken handles DELETE /api/v1/collections/:address/tokens/:number
func (h Handler) BurnToken(c *gin.Context) {
	token, ok := tokenParam(c)
	if !ok {
		return
	}

	result, err := h.sync.BurnToken(c.Request.Context(), token)
	if err != nil {
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, burnTokenResponse{
		OperationID: result.OperationID,
		Collection:  result.Token.Collection.String(),
		TokenNumber: result.Token.Number,
		TxHash:      result.TxHash,
	})
}

// ListToken handles POST /api/v1/collections/:address/tokens/:number/listing
func (h Handler) ListToken(c *gin.Context) {
	token, ok := tokenParam(c)
	if !ok {
		return
	}

	var req listTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	result, err := h.sync.ListToken(c.Request.Context(), token, req.Price)
	if err != nil {
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.updateResponse(result))
}

// DelistToken handles DELETE /api/v1/collections/:address/tokens/:number/listing
func (h Handler) DelistToken(c *gin.Context) {
	token, ok := tokenParam(c)
	if !ok {
		return
	}

	result, err := h.sync.DelistToken(c.Request.Context(), token)
	if err != nil {
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.updateResponse(result))
}

// AddOffer handles POST /api/v1/collections/:address/tokens/:number/offers
func (h Handler) AddOffer(c *gin.Context) {
	token, ok := tokenParam(c)
	if !ok {
		return
	}

	var req addOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	result, err := h.sync.AddOffer(c.Request.Context(), token, req.OfferAddress, req.Price)
	if err != nil {
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.updateResponse(result))
}

// TransferOwner handles POST /api/v1/collections/:address/tokens/:number/transfer
func (h Handler) TransferOwner(c *gin.Context) {
	token, ok := tokenParam(c)
	if !ok {
		return
	}

	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	result, err := h.sync.TransferOwner(c.Request.Context(), token, req.NewOwner, req.Price, req.TxHash)
	if err != nil {
		respondSyncError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.updateResponse(result))
}

func (h Handler) updateResponse(result *syncer.UpdateResult) updateResponse {
	return updateResponse{
		OperationID: result.OperationID,
		Collection:  result.Token.Collection.String(),
		TokenNumber: result.Token.Number,
		ContentRef:  result.ContentRef,
	}
}

// collectionParam extracts and validates the collection address path param
func collectionParam(c *gin.Context) (domain.CollectionID, bool) {
	collection := domain.CollectionID(c.Param("address"))
	if !collection.Valid() {
		respondBadRequest(c, "Invalid collection address")
		return "", false
	}
	return collection, true
}

// tokenParam extracts and validates the collection address and token number
// path params
func tokenParam(c *gin.Context) (domain.TokenID, bool) {
	collection, ok := collectionParam(c)
	if !ok {
		return domain.TokenID{}, false
	}

	token := domain.NewTokenID(collection, c.Param("number"))
	if !token.Valid() {
		respondBadRequest(c, "Invalid token number")
		return domain.TokenID{}, false
	}

	return token, true
}
