package openai

import (
	"context"
	"fmt"
	"strings"

	"dreamspeak/application/ports"

	openaigo "github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

// TextGenerator asks a chat model for a JSON object
type TextGenerator struct {
	client openaigo.Client
	model  string
	logger *zap.Logger
}

var _ ports.TextGenerator = (*TextGenerator)(nil)

// NewTextGenerator creates a text generator for model
func NewTextGenerator(client openaigo.Client, model string, logger *zap.Logger) *TextGenerator {
	if model == "" {
		model = DefaultTextModel
	}
	return &TextGenerator{client: client, model: model, logger: logger}
}

// GenerateJSON sends one chat completion in JSON mode and returns the reply text
func (g *TextGenerator) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(g.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(systemPrompt),
			openaigo.UserMessage(userPrompt),
		},
		ResponseFormat: openaigo.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openaigo.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		g.logger.Warn("Chat completion failed", zap.String("model", g.model), zap.Error(err))
		return "", upstreamError(err, false)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm returned empty choices")
	}

	g.logger.Debug("Chat completion received",
		zap.String("model", g.model),
		zap.Int64("totalTokens", resp.Usage.TotalTokens),
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
