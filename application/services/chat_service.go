package services

import (
	"context"

	"dreamspeak/application/ports"
	"dreamspeak/domain/dream"
	pkgerrors "dreamspeak/pkg/errors"

	"go.uber.org/zap"
)

// Recent feed bounds
const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

// ChatService reads and appends chat messages
type ChatService struct {
	chat   ports.ChatRepository
	logger *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(chat ports.ChatRepository, logger *zap.Logger) *ChatService {
	return &ChatService{
		chat:   chat,
		logger: logger,
	}
}

// PostMessage appends a message. The dream id is not checked.
func (s *ChatService) PostMessage(ctx context.Context, input dream.NewChatMessage) (*dream.ChatMessage, error) {
	if input.Role != dream.RoleUser && input.Role != dream.RoleAssistant {
		return nil, pkgerrors.NewValidationError("role must be one of: user assistant")
	}

	message, err := s.chat.CreateChatMessage(ctx, input)
	if err != nil {
		s.logger.Error("Failed to store chat message", zap.Error(err))
		return nil, pkgerrors.NewDatabaseError("create chat message", err)
	}

	s.logger.Debug("Chat message stored",
		zap.Int64("messageID", message.ID),
		zap.Bool("global", message.IsGlobal()),
	)
	return message, nil
}

// Messages returns a dream's thread, or the global feed when dreamID is nil
func (s *ChatService) Messages(ctx context.Context, dreamID *int64) ([]*dream.ChatMessage, error) {
	messages, err := s.chat.GetChatMessages(ctx, dreamID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get chat messages", err)
	}
	return messages, nil
}

// Recent returns the newest messages across all threads, oldest first.
// A non-positive limit means the default; large limits are capped.
func (s *ChatService) Recent(ctx context.Context, limit int) ([]*dream.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	messages, err := s.chat.GetRecentChatMessages(ctx, limit)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get recent chat messages", err)
	}
	return messages, nil
}
