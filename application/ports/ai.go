package ports

import (
	"context"
	"errors"
)

// ErrContentPolicy marks an image request the provider refused on content grounds
var ErrContentPolicy = errors.New("content policy violation")

// TextGenerator produces a JSON document from a system and user prompt
type TextGenerator interface {
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ImageGenerator produces an image URL for a prompt. Implementations wrap
// ErrContentPolicy when the provider rejects the prompt itself.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}
