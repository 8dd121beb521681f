package models

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of cache error
type ErrorType string

const (
	// ErrorTypeSerialization represents failures canonicalizing caller-supplied params
	ErrorTypeSerialization ErrorType = "serialization"
	// ErrorTypeStore represents connectivity or query failures from the document store
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeDeserialization represents stored documents that do not match the expected schema
	ErrorTypeDeserialization ErrorType = "deserialization"
)

// CacheError represents a structured error from the caching layer.
// Errors always propagate to the caller unmodified; the cache never
// downgrades a failure to a miss.
type CacheError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap allows error unwrapping
func (e *CacheError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether retrying the operation could succeed.
// Only store failures are transient; the other categories are caller bugs
// or corrupted documents.
func (e *CacheError) IsRetryable() bool {
	return e.Type == ErrorTypeStore
}

// NewSerializationError creates a serialization error
func NewSerializationError(message string, cause error) *CacheError {
	return &CacheError{
		Type:    ErrorTypeSerialization,
		Message: message,
		Cause:   cause,
	}
}

// NewStoreError creates a store error for a failed operation
func NewStoreError(operation string, cause error) *CacheError {
	return &CacheError{
		Type:    ErrorTypeStore,
		Message: fmt.Sprintf("document store %s failed", operation),
		Cause:   cause,
	}
}

// NewDeserializationError creates a deserialization error for a malformed document
func NewDeserializationError(documentID string, cause error) *CacheError {
	return &CacheError{
		Type:    ErrorTypeDeserialization,
		Message: fmt.Sprintf("malformed cache document %s", documentID),
		Cause:   cause,
	}
}

// IsErrorType reports whether err is (or wraps) a CacheError of the given type
func IsErrorType(err error, t ErrorType) bool {
	var ce *CacheError
	if errors.As(err, &ce) {
		return ce.Type == t
	}
	return false
}

// IsStoreError reports whether err originated from the store collaborator
func IsStoreError(err error) bool {
	return IsErrorType(err, ErrorTypeStore)
}

// IsSerializationError reports whether err came from params canonicalization
func IsSerializationError(err error) bool {
	return IsErrorType(err, ErrorTypeSerialization)
}

// IsDeserializationError reports whether err came from decoding a stored document
func IsDeserializationError(err error) bool {
	return IsErrorType(err, ErrorTypeDeserialization)
}
