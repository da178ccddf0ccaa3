package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEntityNotFound is returned when an on-chain entity cannot be resolved.
	// It is a distinguished condition: the entity may still exist on-chain even
	// though this client could not identify it.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrPointerNotFound is returned when no pointer table entry exists for a key
	ErrPointerNotFound = errors.New("pointer not found")

	// ErrNoMetadata is returned when a pointer entry carries the upload-failed
	// sentinel instead of a content reference
	ErrNoMetadata = errors.New("entity has no metadata document")
)

// ValidationError indicates malformed input to document composition.
// It is the caller's fault and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a new validation error for a field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// SubmissionError indicates a transaction could not be submitted to the chain
// (rejected signature, insufficient funds, node error).
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("transaction submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// ConfirmationError indicates a submitted transaction could not be confirmed,
// including confirmation timeouts.
type ConfirmationError struct {
	TxHash string
	Err    error
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("transaction %s confirmation failed: %v", e.TxHash, e.Err)
}

func (e *ConfirmationError) Unwrap() error { return e.Err }

// StoreUnavailableError indicates a content store upload or fetch failed at the
// network/service level. Beyond transport-level rate limit backoff, the store
// client does not re-attempt failed operations; retry decisions belong to the
// caller so failure attribution stays unambiguous.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("content store unavailable: %v", e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }
