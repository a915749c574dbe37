package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyshield/riskengine/internal/domain/errs"
)

// RequireNoError fails the test immediately if err is not nil.
func RequireNoError(t *testing.T, err error, msgAndArgs ...interface{}) {
	t.Helper()
	require.NoError(t, err, msgAndArgs...)
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}

// AssertValidationError checks that err is a ValidationError for field.
func AssertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	var verr *errs.ValidationError
	if assert.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err) {
		assert.Equal(t, field, verr.Field)
	}
}

// AssertStorageError checks that err is a StorageError.
func AssertStorageError(t *testing.T, err error) {
	t.Helper()
	assert.True(t, errs.IsStorage(err), "expected StorageError, got %v", err)
}
