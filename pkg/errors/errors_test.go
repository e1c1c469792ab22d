package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConstructors_Status(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		err        *AppError
		wantType   ErrorType
		wantStatus int
		wantMsg    string
	}{
		{"validation", NewValidationError("Prompt is required"), ErrorTypeValidation, http.StatusBadRequest, "Prompt is required"},
		{"not found", NewNotFoundError("Dream"), ErrorTypeNotFound, http.StatusNotFound, "Dream not found"},
		{"unauthorized default", NewUnauthorizedError(""), ErrorTypeUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"unavailable", NewUnavailableError("analysis"), ErrorTypeUnavailable, http.StatusServiceUnavailable, "service 'analysis' is unavailable"},
		{"database", NewDatabaseError("get dream", cause), ErrorTypeDatabase, http.StatusInternalServerError, "database operation 'get dream' failed"},
		{"external", NewExternalError("Failed to analyze dream", cause), ErrorTypeExternal, http.StatusInternalServerError, "Failed to analyze dream: boom"},
		{"external without cause", NewExternalError("Failed to generate image", nil), ErrorTypeExternal, http.StatusInternalServerError, "Failed to generate image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.wantMsg, tt.err.Message)
			assert.NotEmpty(t, tt.err.StackTrace)
		})
	}
}

func TestHelpers_UnwrapChains(t *testing.T) {
	cause := errors.New("conditional check failed")
	wrapped := fmt.Errorf("update: %w", NewNotFoundError("Dream"))

	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.False(t, IsAppError(cause))
	assert.Nil(t, GetAppError(cause))

	db := NewDatabaseError("put", cause)
	assert.True(t, errors.Is(db, cause))
	assert.Contains(t, db.Error(), "caused by: conditional check failed")
	assert.True(t, IsExternal(NewExternalError("x", cause)))
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		debug      bool
		err        error
		wantStatus int
		wantType   string
		wantMsg    string
	}{
		{
			name:       "app error keeps its status",
			err:        NewNotFoundError("Dream"),
			wantStatus: http.StatusNotFound,
			wantType:   "NOT_FOUND",
			wantMsg:    "Dream not found",
		},
		{
			name:       "upstream message is surfaced",
			err:        NewExternalError("Failed to analyze dream", errors.New("You exceeded your current quota")),
			wantStatus: http.StatusInternalServerError,
			wantType:   "EXTERNAL",
			wantMsg:    "Failed to analyze dream: You exceeded your current quota",
		},
		{
			name:       "plain error is hidden",
			err:        errors.New("secret detail"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "INTERNAL",
			wantMsg:    "An internal error occurred",
		},
		{
			name:       "plain error is shown in debug",
			debug:      true,
			err:        errors.New("secret detail"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "INTERNAL",
			wantMsg:    "secret detail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewErrorHandler(zap.NewNop(), tt.debug)
			req := httptest.NewRequest(http.MethodGet, "/api/dreams/9", nil)
			req.Header.Set("X-Request-ID", "req-9")
			rec := httptest.NewRecorder()

			handler.Handle(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decodeErrorResponse(t, rec)
			assert.True(t, body.Error)
			assert.Equal(t, tt.wantType, body.Type)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Equal(t, "req-9", body.RequestID)
		})
	}
}

func TestErrorHandler_DebugStackTraceKeepsDetails(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), true)
	err := NewValidationError("bad").WithDetails(map[string]interface{}{"fields": map[string]interface{}{"title": "title is required"}})
	rec := httptest.NewRecorder()

	handler.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/dreams", nil), err)

	body := decodeErrorResponse(t, rec)
	assert.Contains(t, body.Details, "fields")
	assert.Contains(t, body.Details, "stack_trace")
	assert.NotContains(t, err.Details, "stack_trace")
}

func TestErrorHandler_HandleStatus(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false)
	rec := httptest.NewRecorder()

	handler.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil), http.StatusNotFound, "Route not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeErrorResponse(t, rec)
	assert.Equal(t, "NOT_FOUND", body.Type)
	assert.Equal(t, "Route not found", body.Message)
}

func TestErrorHandler_MiddlewareRecoversPanics(t *testing.T) {
	handler := NewErrorHandler(zap.NewNop(), false)
	wrapped := middleware.RequestID(handler.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil map")
	})))
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeErrorResponse(t, rec)
	assert.Equal(t, "INTERNAL", body.Type)
	assert.NotEmpty(t, body.RequestID)
}
