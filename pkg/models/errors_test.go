package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStoreError("get", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCacheErrorClassification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"serialization", NewSerializationError("bad params", nil), IsSerializationError},
		{"store", NewStoreError("put", errors.New("timeout")), IsStoreError},
		{"deserialization", NewDeserializationError("abc123", errors.New("bad json")), IsDeserializationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			// wrapped errors classify the same way
			assert.True(t, tt.check(fmt.Errorf("outer: %w", tt.err)))
		})
	}

	assert.False(t, IsStoreError(errors.New("plain")))
	assert.False(t, IsStoreError(NewSerializationError("bad params", nil)))
}

func TestCacheErrorRetryable(t *testing.T) {
	assert.True(t, NewStoreError("get", nil).IsRetryable())
	assert.False(t, NewSerializationError("bad params", nil).IsRetryable())
	assert.False(t, NewDeserializationError("abc123", nil).IsRetryable())
}
