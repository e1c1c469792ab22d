package handlers

import (
	"net/http"

	"dreamspeak/application/services"
	"dreamspeak/domain/dream"
	pkgerrors "dreamspeak/pkg/errors"
	"dreamspeak/pkg/utils"

	"go.uber.org/zap"
)

// DreamHandler handles dream-related HTTP requests
type DreamHandler struct {
	dreams *services.DreamService
	users  UserResolver
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewDreamHandler creates a new dream handler
func NewDreamHandler(
	dreams *services.DreamService,
	users UserResolver,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *DreamHandler {
	return &DreamHandler{
		dreams: dreams,
		users:  users,
		errors: errorHandler,
		logger: logger,
	}
}

// CreateDreamRequest represents the request body for storing a dream directly.
// userId may be omitted only when the request carries an authenticated subject.
type CreateDreamRequest struct {
	UserID     *int64   `json:"userId,omitempty" validate:"omitempty,gt=0"`
	Title      string   `json:"title" validate:"required,max=200"`
	Content    string   `json:"content" validate:"required"`
	Analysis   *string  `json:"analysis,omitempty"`
	Archetypes []string `json:"archetypes,omitempty" validate:"omitempty,dive,max=100"`
	Symbols    []string `json:"symbols,omitempty" validate:"omitempty,dive,max=100"`
	ImageURL   *string  `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// UpdateDreamRequest represents a partial dream. Absent fields stay unchanged; an
// explicit null clears analysis, archetypes, symbols or imageUrl.
type UpdateDreamRequest struct {
	Title      *string                  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content    *string                  `json:"content,omitempty" validate:"omitempty,min=1"`
	Analysis   dream.Optional[string]   `json:"analysis" swaggertype:"string"`
	Archetypes dream.Optional[[]string] `json:"archetypes" swaggertype:"array,string"`
	Symbols    dream.Optional[[]string] `json:"symbols" swaggertype:"array,string"`
	ImageURL   dream.Optional[string]   `json:"imageUrl" swaggertype:"string"`
}

// validateValues checks the nullable fields the client supplied a value for
func (req *UpdateDreamRequest) validateValues() error {
	if v := req.ImageURL.Value; v != nil {
		if err := utils.ValidateVar("imageUrl", *v, "url"); err != nil {
			return err
		}
	}
	if v := req.Archetypes.Value; v != nil {
		if err := utils.ValidateVar("archetypes", *v, "dive,max=100"); err != nil {
			return err
		}
	}
	if v := req.Symbols.Value; v != nil {
		if err := utils.ValidateVar("symbols", *v, "dive,max=100"); err != nil {
			return err
		}
	}
	return nil
}

// AnalyzeDreamRequest represents the request body for analyzing a new dream. userId
// may be omitted only when the request carries an authenticated subject.
type AnalyzeDreamRequest struct {
	DreamContent string `json:"dreamContent" validate:"required"`
	UserID       *int64 `json:"userId,omitempty" validate:"omitempty,gt=0"`
}

// ListDreams handles GET /api/dreams
func (h *DreamHandler) ListDreams(w http.ResponseWriter, r *http.Request) {
	requested, err := queryID(r, "userId")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	dreams, err := h.dreams.ListDreams(r.Context(), h.users.Resolve(r.Context(), requested))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dreams)
}

// CreateDream handles POST /api/dreams
func (h *DreamHandler) CreateDream(w http.ResponseWriter, r *http.Request) {
	var req CreateDreamRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	userID, err := h.users.Require(r.Context(), req.UserID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	created, err := h.dreams.CreateDream(r.Context(), dream.NewDream{
		UserID:     userID,
		Title:      req.Title,
		Content:    req.Content,
		Analysis:   req.Analysis,
		Archetypes: req.Archetypes,
		Symbols:    req.Symbols,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// SearchDreams handles GET /api/dreams/search
func (h *DreamHandler) SearchDreams(w http.ResponseWriter, r *http.Request) {
	requested, err := queryID(r, "userId")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	dreams, err := h.dreams.SearchDreams(r.Context(), h.users.Resolve(r.Context(), requested), r.URL.Query().Get("q"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dreams)
}

// AnalyzeDream handles POST /api/dreams/analyze
func (h *DreamHandler) AnalyzeDream(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeDreamRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	userID, err := h.users.Require(r.Context(), req.UserID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.dreams.AnalyzeDream(r.Context(), userID, req.DreamContent)
	if err != nil {
		h.logger.Error("Failed to analyze dream",
			zap.Int64("userID", userID),
			zap.Error(err),
		)
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetDream handles GET /api/dreams/{id}
func (h *DreamHandler) GetDream(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	d, err := h.dreams.GetDream(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// UpdateDream handles PATCH /api/dreams/{id}
func (h *DreamHandler) UpdateDream(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req UpdateDreamRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := req.validateValues(); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	updated, err := h.dreams.UpdateDream(r.Context(), id, dream.Patch{
		Title:      req.Title,
		Content:    req.Content,
		Analysis:   req.Analysis,
		Archetypes: req.Archetypes,
		Symbols:    req.Symbols,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteDream handles DELETE /api/dreams/{id}
func (h *DreamHandler) DeleteDream(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.dreams.DeleteDream(r.Context(), id); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateDreamImage handles POST /api/dreams/{dreamId}/generate-image
func (h *DreamHandler) GenerateDreamImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "dreamId")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.dreams.IllustrateDream(r.Context(), id)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
