package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(http.StatusConflict, "Resource already exists")

	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, "Resource already exists", err.Error())
	assert.True(t, err.Operational)
	assert.Nil(t, err.Details)
	assert.Contains(t, err.Stack(), "TestNew")
}

func TestWithDetails(t *testing.T) {
	details := []string{"a", "b"}
	err := WithDetails(http.StatusBadRequest, "Validation failed", details)

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, details, err.Details)
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("signup: %w", Unauthorized("nope"))

	var appErr *Error
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "operational", KindOperational.String())
	assert.Equal(t, "conflict", KindConflict.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestStackStartsAtCaller(t *testing.T) {
	stack := Unauthorized("nope").Stack()

	first, _, _ := strings.Cut(stack, "\n")
	assert.True(t, strings.HasSuffix(first, "TestStackStartsAtCaller"), first)
	assert.NotContains(t, stack, "apperror.newError")
}

func TestWithCause(t *testing.T) {
	sentinel := errors.New("invalid credentials")
	err := Unauthorized("Invalid email or password").WithCause(sentinel)

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, "Invalid email or password", err.Error())
}

func TestStackEmpty(t *testing.T) {
	assert.Empty(t, (&Error{}).Stack())
}
