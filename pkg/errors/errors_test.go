package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Sentinel error identity ---

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrInvalidInput, ErrConflict,
		ErrIO, ErrConfig, ErrInternal,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

// --- AppError behavior ---

func TestAppError_ErrorString_WithWrappedError(t *testing.T) {
	inner := fmt.Errorf("disk full")
	appErr := &AppError{Code: "IO_ERROR", Message: "write seed", Err: inner}
	assert.Contains(t, appErr.Error(), "IO_ERROR")
	assert.Contains(t, appErr.Error(), "write seed")
	assert.Contains(t, appErr.Error(), "disk full")
}

func TestAppError_ErrorString_WithoutWrappedError(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "category not found"}
	assert.Equal(t, "NOT_FOUND: category not found", appErr.Error())
}

func TestAppError_Unwrap_Nil(t *testing.T) {
	appErr := &AppError{Code: "TEST", Message: "test"}
	assert.Nil(t, appErr.Unwrap())
}

// --- Constructor functions ---

func TestNotFound(t *testing.T) {
	err := NotFound("category", "slug", "amber")
	require.NotNil(t, err)
	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, `category with slug "amber" not found`, err.Message)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAlreadyExists(t *testing.T) {
	err := AlreadyExists("category", "slug", "men")
	require.NotNil(t, err)
	assert.Equal(t, "ALREADY_EXISTS", err.Code)
	assert.Contains(t, err.Message, "category")
	assert.Contains(t, err.Message, "men")
	assert.True(t, errors.Is(err, ErrAlreadyExists))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("name is required")
	require.NotNil(t, err)
	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, "name is required", err.Message)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestConflict(t *testing.T) {
	err := Conflict("sku collision")
	require.NotNil(t, err)
	assert.Equal(t, "CONFLICT", err.Code)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestIO_KeepsCause(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := IO("write seed.sql", cause)
	assert.Equal(t, "IO_ERROR", err.Code)
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, cause))
}

func TestInternal(t *testing.T) {
	inner := fmt.Errorf("segfault")
	err := Internal(inner)
	require.NotNil(t, err)
	assert.Equal(t, "INTERNAL_ERROR", err.Code)
	assert.Contains(t, err.Error(), "segfault")
}

// --- Wrap ---

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "resolve category")
	assert.Contains(t, wrapped.Error(), "resolve category")
	assert.True(t, errors.Is(wrapped, ErrNotFound))
}

// --- ExitCode ---

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, ExitOK},
		{"not found", NotFound("category", "slug", "x"), ExitDataErr},
		{"conflict", Conflict("dup"), ExitDataErr},
		{"invalid input", InvalidInput("bad"), ExitDataErr},
		{"already exists", AlreadyExists("a", "b", "c"), ExitDataErr},
		{"io", IO("write", fmt.Errorf("boom")), ExitIOErr},
		{"config", Config("bad port"), ExitConfig},
		{"wrapped", fmt.Errorf("outer: %w", ErrNotFound), ExitDataErr},
		{"unknown", fmt.Errorf("unknown"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ExitCode(tt.err))
		})
	}
}
