package handlers

import (
	"net/http"

	"dreamspeak/application/services"
	pkgerrors "dreamspeak/pkg/errors"

	"go.uber.org/zap"
)

// ImageHandler serves free-form image generation
type ImageHandler struct {
	dreams *services.DreamService
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(dreams *services.DreamService, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		dreams: dreams,
		errors: errorHandler,
		logger: logger,
	}
}

// GenerateImageRequest represents the request body for POST /api/generate-image
type GenerateImageRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// GenerateImageResponse echoes the prompt next to the generated image
type GenerateImageResponse struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
}

// GenerateImage handles POST /api/generate-image
func (h *ImageHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req GenerateImageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.dreams.GenerateImage(r.Context(), req.Prompt)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if result.Fallback {
		h.logger.Info("Image generated from safe fallback prompt")
	}
	respondJSON(w, http.StatusOK, GenerateImageResponse{ImageURL: result.Image.URL, Prompt: req.Prompt})
}
