package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mosaic-market/metadata-sync/internal/domain"
	"github.com/mosaic-market/metadata-sync/internal/logger"
	syncer "github.com/mosaic-market/metadata-sync/internal/sync"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	errCodeBadRequest       ErrorCode = "bad_request"
	errCodeNotFound         ErrorCode = "not_found"
	errCodeNoMetadata       ErrorCode = "no_metadata"
	errCodeValidationFailed ErrorCode = "validation_failed"

	// Server errors (5xx)
	errCodeInternalError    ErrorCode = "internal_error"
	errCodeChainError       ErrorCode = "chain_error"
	errCodeStoreUnavailable ErrorCode = "store_unavailable"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information. Stage and AssetRefs report partial
// progress of a failed synchronization operation.
type errorDetail struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Stage     string    `json:"stage,omitempty"`
	AssetRefs []string  `json:"asset_refs,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}

	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, errCodeBadRequest, message, details...)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusNotFound, errCodeNotFound, message, details...)
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, errCodeValidationFailed, "Validation failed", details)
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(message, append(fields, zap.Error(err))...)
	respondWithError(c, http.StatusInternalServerError, errCodeInternalError, message)
}

// respondSyncError maps synchronization failures onto HTTP statuses: caller
// faults are 4xx, chain faults are 502, content store faults are 503. A
// failed operation's stage and uploaded asset references are included so the
// caller can see partial progress.
func respondSyncError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		respondValidationError(c, validationErr.Error())
		return
	}

	if errors.Is(err, domain.ErrPointerNotFound) || errors.Is(err, domain.ErrEntityNotFound) {
		respondNotFound(c, "Entity not found")
		return
	}

	if errors.Is(err, domain.ErrNoMetadata) {
		respondWithError(c, http.StatusNotFound, errCodeNoMetadata, "Entity has no metadata document")
		return
	}

	var opErr *syncer.OperationError
	if errors.As(err, &opErr) {
		respondOperationError(c, opErr)
		return
	}

	var storeErr *domain.StoreUnavailableError
	if errors.As(err, &storeErr) {
		respondWithError(c, http.StatusServiceUnavailable, errCodeStoreUnavailable, "Content store unavailable", storeErr.Error())
		return
	}

	respondInternalError(c, err, "Unexpected error")
}

// respondOperationError reports a failed operation with its stage and any
// asset references uploaded before the failure
func respondOperationError(c *gin.Context, opErr *syncer.OperationError) {
	statusCode := http.StatusInternalServerError
	code := errCodeInternalError

	var submissionErr *domain.SubmissionError
	var confirmationErr *domain.ConfirmationError
	var storeErr *domain.StoreUnavailableError
	var validationErr *domain.ValidationError

	switch {
	case errors.As(opErr.Err, &submissionErr), errors.As(opErr.Err, &confirmationErr):
		statusCode = http.StatusBadGateway
		code = errCodeChainError
	case errors.As(opErr.Err, &storeErr):
		statusCode = http.StatusServiceUnavailable
		code = errCodeStoreUnavailable
	case errors.As(opErr.Err, &validationErr):
		statusCode = http.StatusBadRequest
		code = errCodeValidationFailed
	case errors.Is(opErr.Err, domain.ErrEntityNotFound):
		statusCode = http.StatusNotFound
		code = errCodeNotFound
	}

	logger.Error("synchronization operation failed",
		zap.String("operationID", opErr.OperationID),
		zap.String("stage", opErr.Stage),
		zap.Error(opErr.Err))

	c.JSON(statusCode, errorResponse{
		Error: errorDetail{
			Code:      code,
			Message:   "Synchronization failed",
			Details:   opErr.Error(),
			Stage:     opErr.Stage,
			AssetRefs: opErr.AssetRefs,
		},
	})
}
