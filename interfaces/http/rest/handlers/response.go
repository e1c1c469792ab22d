package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"dreamspeak/pkg/auth"
	pkgerrors "dreamspeak/pkg/errors"
	"dreamspeak/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// respondJSON writes data with the given status
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return pkgerrors.NewValidationError("Request body is required")
		}
		return pkgerrors.NewValidationError("Invalid request body: " + err.Error())
	}
	return utils.ValidateStruct(dst)
}

// pathID parses a numeric URL parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.NewValidationError("Invalid " + name + ": " + strconv.Quote(raw)).
			WithDetails(map[string]interface{}{"fields": map[string]interface{}{name: "must be a positive integer"}})
	}
	return id, nil
}

// queryID parses an optional numeric query parameter; nil when absent
func queryID(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, pkgerrors.NewValidationError("Invalid " + name + ": " + strconv.Quote(raw)).
			WithDetails(map[string]interface{}{"fields": map[string]interface{}{name: "must be a positive integer"}})
	}
	return &id, nil
}

// UserResolver picks the user a request acts as. An authenticated subject wins
// over any userId the client sent; without either the default user is used.
type UserResolver struct {
	DefaultUserID int64
}

// Resolve returns the acting user id
func (u UserResolver) Resolve(ctx context.Context, requested *int64) int64 {
	if id, ok := auth.UserIDFromContext(ctx); ok {
		return id
	}
	if requested != nil {
		return *requested
	}
	return u.DefaultUserID
}

// Require returns the acting user for a write. Without an authenticated subject the
// body must name the user; the default is only applied to reads.
func (u UserResolver) Require(ctx context.Context, requested *int64) (int64, error) {
	if id, ok := auth.UserIDFromContext(ctx); ok {
		return id, nil
	}
	if requested == nil {
		return 0, pkgerrors.NewValidationError("Invalid request: userId is required").
			WithDetails(map[string]interface{}{
				"fields": map[string]interface{}{"userId": "userId is required"},
			})
	}
	return *requested, nil
}
