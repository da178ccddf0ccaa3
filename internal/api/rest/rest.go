package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/mosaic-market/metadata-sync/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Collection reads (public)
		v1.GET("/collections/:address", handler.GetCollection)
		v1.GET("/collections/:address/tokens", handler.ListCollectionTokens)
		v1.GET("/collections/:address/tokens/:number", handler.GetToken)
		v1.GET("/creators/:address/collections", handler.ListCreatorCollections)

		// On-chain writes (requires authentication)
		v1.POST("/collections", middleware.Auth(authCfg), handler.CreateCollection)
		v1.POST("/collections/:address/tokens", middleware.Auth(authCfg), handler.MintToken)
		v1.POST("/collections/:address/tokens/batch", middleware.Auth(authCfg), handler.BatchMint)
		v1.DELETE("/collections/:address/tokens/:number", middleware.Auth(authCfg), handler.BurnToken)

		// Document updates (requires authentication)
		v1.POST("/collections/:address/tokens/:number/listing", middleware.Auth(authCfg), handler.ListToken)
		v1.DELETE("/collections/:address/tokens/:number/listing", middleware.Auth(authCfg), handler.DelistToken)
		v1.POST("/collections/:address/tokens/:number/offers", middleware.Auth(authCfg), handler.AddOffer)
		v1.POST("/collections/:address/tokens/:number/transfer", middleware.Auth(authCfg), handler.TransferOwner)
	}
}
