package ports

import (
	"context"
	"errors"

	"dreamspeak/domain/dream"
)

// ErrNotFound is returned by repositories when a record id is absent.
// It is a sentinel, not a failure: callers translate it into a 404.
var ErrNotFound = errors.New("record not found")

// DreamRepository stores dreams keyed by auto-incrementing id and scoped by user
type DreamRepository interface {
	// CreateDream assigns the next id and the creation time
	CreateDream(ctx context.Context, input dream.NewDream) (*dream.Dream, error)

	// GetDream returns ErrNotFound when the id is unknown
	GetDream(ctx context.Context, id int64) (*dream.Dream, error)

	// GetDreamsByUserID returns the user's dreams, newest first
	GetDreamsByUserID(ctx context.Context, userID int64) ([]*dream.Dream, error)

	// UpdateDream shallow-merges the patch; last write wins
	UpdateDream(ctx context.Context, id int64, patch dream.Patch) (*dream.Dream, error)

	// DeleteDream removes a dream; ErrNotFound when absent
	DeleteDream(ctx context.Context, id int64) error

	// SearchDreams matches query case-insensitively against text fields and labels,
	// in GetDreamsByUserID order
	SearchDreams(ctx context.Context, userID int64, query string) ([]*dream.Dream, error)
}

// ChatRepository stores chat messages
type ChatRepository interface {
	CreateChatMessage(ctx context.Context, input dream.NewChatMessage) (*dream.ChatMessage, error)

	// GetChatMessages returns a dream's thread, or the global feed when dreamID is nil,
	// oldest first
	GetChatMessages(ctx context.Context, dreamID *int64) ([]*dream.ChatMessage, error)

	// GetRecentChatMessages returns the newest limit messages in ascending order
	GetRecentChatMessages(ctx context.Context, limit int) ([]*dream.ChatMessage, error)
}

// UserRepository stores accounts
type UserRepository interface {
	CreateUser(ctx context.Context, username, password string) (*dream.User, error)
	GetUser(ctx context.Context, id int64) (*dream.User, error)
	GetUserByUsername(ctx context.Context, username string) (*dream.User, error)
}

// Store bundles every repository a backend provides
type Store interface {
	DreamRepository
	ChatRepository
	UserRepository

	// Ping reports whether the backing storage is reachable
	Ping(ctx context.Context) error
}
