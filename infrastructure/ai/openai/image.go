package openai

import (
	"context"

	"dreamspeak/application/ports"

	openaigo "github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

// ImageGenerator renders one 1024x1024 image per prompt and returns its URL
type ImageGenerator struct {
	client openaigo.Client
	model  string
	logger *zap.Logger
}

var _ ports.ImageGenerator = (*ImageGenerator)(nil)

// NewImageGenerator creates an image generator for model
func NewImageGenerator(client openaigo.Client, model string, logger *zap.Logger) *ImageGenerator {
	if model == "" {
		model = DefaultImageModel
	}
	return &ImageGenerator{client: client, model: model, logger: logger}
}

// GenerateImage returns the URL of the generated image. An HTTP 400 from the
// provider is reported as ports.ErrContentPolicy.
func (g *ImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Images.Generate(ctx, openaigo.ImageGenerateParams{
		Prompt: prompt,
		Model:  openaigo.ImageModel(g.model),
		N:      openaigo.Int(1),
		Size:   openaigo.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		g.logger.Warn("Image generation failed", zap.String("model", g.model), zap.Error(err))
		return "", upstreamError(err, true)
	}

	if len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].URL, nil
}
