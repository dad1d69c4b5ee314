package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate-go/internal/apperror"
	"github.com/authgate/authgate-go/internal/repository"
	"github.com/authgate/authgate-go/internal/validation"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func serveError(t *testing.T, development bool, err error) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	h := NewErrorHandler(development, quietLogger())
	rec := httptest.NewRecorder()
	h.ServeError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), err)

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func errorField(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestServeErrorAPIError(t *testing.T) {
	rec, body := serveError(t, false, apperror.New(http.StatusConflict, "Resource already exists"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.False(t, body.Success)
	assert.Equal(t, "Resource already exists", body.Message)
	assert.Empty(t, body.Error, "no error field outside development")
}

func TestServeErrorAPIErrorWithDetails(t *testing.T) {
	details := []validation.FieldError{{Field: "email", Message: "Please provide a valid email address"}}
	rec, body := serveError(t, false, apperror.WithDetails(http.StatusBadRequest, "Validation failed", details))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var got []validation.FieldError
	require.NoError(t, json.Unmarshal(body.Error, &got))
	assert.Equal(t, details, got)
}

func TestServeErrorWrappedAPIError(t *testing.T) {
	rec, body := serveError(t, false, fmt.Errorf("loading user: %w", apperror.NotFound("User not found")))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", body.Message)
}

func TestServeErrorUniqueViolation(t *testing.T) {
	rec, body := serveError(t, false, &repository.Error{Kind: repository.KindUniqueViolation, Target: []string{"email"}})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email address is already registered", body.Message)

	rec, body = serveError(t, false, &repository.Error{Kind: repository.KindUniqueViolation, Target: []string{"PRIMARY"}})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Resource already exists", body.Message)
}

func TestServeErrorRecordNotFound(t *testing.T) {
	rec, body := serveError(t, false, fmt.Errorf("update: %w", &repository.Error{Kind: repository.KindRecordNotFound}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Resource not found", body.Message)
}

func TestServeErrorUnknown(t *testing.T) {
	rec, body := serveError(t, false, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body.Message)
	assert.Empty(t, body.Error)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestServeErrorUnknownDevelopment(t *testing.T) {
	rec, body := serveError(t, true, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body.Message)
	errField := errorField(t, body.Error)
	assert.NotEmpty(t, errField["stack"])
	assert.Equal(t, "handler", errField["stackOrigin"])
}

func TestServeErrorDevelopmentStackOrigin(t *testing.T) {
	wrapped := fmt.Errorf("loading user: %w", apperror.NotFound("User not found"))
	_, body := serveError(t, true, wrapped)

	errField := errorField(t, body.Error)
	assert.Equal(t, "error", errField["stackOrigin"])
	assert.Contains(t, errField["stack"], "TestServeErrorDevelopmentStackOrigin")
	assert.NotContains(t, errField["stack"], "(*ErrorHandler).ServeError")
}

func TestServeErrorDevelopmentKeepsDetails(t *testing.T) {
	details := []validation.FieldError{{Field: "name", Message: "too short"}}
	_, body := serveError(t, true, apperror.WithDetails(http.StatusBadRequest, "Validation failed", details))

	errField := errorField(t, body.Error)
	assert.Contains(t, errField["stack"], "TestServeErrorDevelopmentKeepsDetails")
	assert.Len(t, errField["details"], 1)
}

func TestServeErrorDevelopmentMergesMapDetails(t *testing.T) {
	_, body := serveError(t, true, apperror.WithDetails(http.StatusBadRequest, "Bad", map[string]any{"hint": "x"}))

	errField := errorField(t, body.Error)
	assert.Equal(t, "x", errField["hint"])
	assert.NotEmpty(t, errField["stack"])
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		kind   apperror.Kind
		status int
	}{
		{apperror.BadRequest("x"), apperror.KindOperational, http.StatusBadRequest},
		{&repository.Error{Kind: repository.KindUniqueViolation}, apperror.KindConflict, http.StatusConflict},
		{&repository.Error{Kind: repository.KindRecordNotFound}, apperror.KindNotFound, http.StatusNotFound},
		{errors.New("Unique constraint failed on email"), apperror.KindUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		c := Classify(tt.err)
		assert.Equal(t, tt.kind, c.Kind, tt.err.Error())
		assert.Equal(t, tt.status, c.Status, tt.err.Error())
	}
}

func TestWrap(t *testing.T) {
	h := NewErrorHandler(false, quietLogger())

	ok := h.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		writeSuccess(w, http.StatusOK, "fine", map[string]string{"k": "v"})
		return nil
	})
	rec := httptest.NewRecorder()
	ok(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"fine","data":{"k":"v"}}`, rec.Body.String())

	failing := h.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		return apperror.Unauthorized("nope")
	})
	rec = httptest.NewRecorder()
	failing(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"nope"}`, rec.Body.String())
}

func TestNotFoundHandler(t *testing.T) {
	h := NewErrorHandler(false, quietLogger())
	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nowhere?x=1", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Route /nowhere?x=1 not found"}`, rec.Body.String())
}
