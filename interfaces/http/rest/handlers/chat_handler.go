package handlers

import (
	"net/http"
	"strconv"

	"dreamspeak/application/services"
	"dreamspeak/domain/dream"
	pkgerrors "dreamspeak/pkg/errors"

	"go.uber.org/zap"
)

// ChatHandler handles chat log requests
type ChatHandler struct {
	chat   *services.ChatService
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		errors: errorHandler,
		logger: logger,
	}
}

// PostMessageRequest represents a chat message posted by the client
type PostMessageRequest struct {
	DreamID     *int64         `json:"dreamId,omitempty" validate:"omitempty,gt=0"`
	Role        string         `json:"role" validate:"required,oneof=user assistant"`
	Content     string         `json:"content" validate:"required"`
	MessageType *string        `json:"messageType,omitempty" validate:"omitempty,max=50"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ListMessages handles GET /api/chat/messages
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	dreamID, err := queryID(r, "dreamId")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	messages, err := h.chat.Messages(r.Context(), dreamID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// RecentMessages handles GET /api/chat/recent
func (h *ChatHandler) RecentMessages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.errors.Handle(w, r, pkgerrors.NewValidationError("Invalid limit: "+strconv.Quote(raw)))
			return
		}
		limit = parsed
	}

	messages, err := h.chat.Recent(r.Context(), limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, messages)
}

// PostMessage handles POST /api/chat/message
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req PostMessageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	message, err := h.chat.PostMessage(r.Context(), dream.NewChatMessage{
		DreamID:     req.DreamID,
		Role:        dream.Role(req.Role),
		Content:     req.Content,
		MessageType: req.MessageType,
		Metadata:    req.Metadata,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, message)
}
