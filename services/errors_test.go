package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(ValidationError("X", "bad", "f")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrapped: %w", NotFoundError("X", "gone", ""))))
	assert.Equal(t, KindStorage, KindOf(errors.New("plain")), "foreign errors count as storage failures")

	assert.True(t, IsKind(UnauthorizedError("no"), KindUnauthorized))
	assert.False(t, IsKind(errors.New("plain"), KindUnauthorized))
}

func TestStorageError_HidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := StorageError("load booking", cause)

	assert.Equal(t, "Server error", err.Message)
	assert.Equal(t, "DATABASE_ERROR", err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "load booking")
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "business_rule", KindBusinessRule.String())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}
