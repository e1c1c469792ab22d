package handlers

import (
	"net/http"

	"dreamspeak/application/services"
	pkgerrors "dreamspeak/pkg/errors"

	"go.uber.org/zap"
)

// InsightsHandler serves the per-user insights summary
type InsightsHandler struct {
	insights *services.InsightsService
	users    UserResolver
	errors   *pkgerrors.ErrorHandler
	logger   *zap.Logger
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(
	insights *services.InsightsService,
	users UserResolver,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *InsightsHandler {
	return &InsightsHandler{
		insights: insights,
		users:    users,
		errors:   errorHandler,
		logger:   logger,
	}
}

// GetInsights handles GET /api/insights/{userId}
func (h *InsightsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	requested, err := pathID(r, "userId")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	insights, err := h.insights.Compute(r.Context(), h.users.Resolve(r.Context(), &requested))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, insights)
}
