package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"dreamspeak/application/ports"
	"dreamspeak/domain/dream"
	"dreamspeak/infrastructure/config"
	pkgerrors "dreamspeak/pkg/errors"
	"dreamspeak/pkg/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const imageStyleTemplate = "A surreal, dreamlike digital painting inspired by this dream: %s. Soft ethereal lighting, flowing shapes, rich symbolic imagery, gentle colors, artistic and peaceful mood."

// ImageService illustrates dreams through an image generator. A prompt refused on
// content grounds is retried exactly once with the policy's safe prompt.
type ImageService struct {
	generator ports.ImageGenerator
	policy    *config.PolicyStore
	logger    *zap.Logger
}

// NewImageService creates a new image service
func NewImageService(generator ports.ImageGenerator, policy *config.PolicyStore, logger *zap.Logger) *ImageService {
	return &ImageService{
		generator: generator,
		policy:    policy,
		logger:    logger,
	}
}

// ImageResult is a generated image plus whether the safe fallback prompt produced it
type ImageResult struct {
	Image    dream.Image
	Fallback bool
}

// Generate produces an illustration for prompt
func (s *ImageService) Generate(ctx context.Context, prompt string) (*ImageResult, error) {
	ctx, span := otel.Tracer("dreamspeak/image").Start(ctx, "ImageService.Generate")
	defer span.End()

	p := s.policy.Current().Images
	styled := s.StylePrompt(prompt)
	span.SetAttributes(attribute.Int("image.prompt_length", len(styled)))

	url, err := s.generator.GenerateImage(ctx, styled)
	if err == nil {
		return &ImageResult{Image: dream.Image{URL: url}}, nil
	}

	if !errors.Is(err, ports.ErrContentPolicy) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		if pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable) {
			return nil, err
		}
		s.logger.Error("Image generation failed", zap.Error(err))
		return nil, pkgerrors.NewExternalError("Failed to generate image", err)
	}

	s.logger.Warn("Image prompt rejected by content policy, retrying with safe prompt",
		zap.String("prompt", styled),
	)
	span.AddEvent("content_policy_fallback")

	url, err = s.generator.GenerateImage(ctx, p.SafePrompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fallback generation failed")
		s.logger.Error("Fallback image generation failed", zap.Error(err))
		return nil, pkgerrors.NewExternalError("Failed to generate image", err)
	}

	return &ImageResult{Image: dream.Image{URL: url}, Fallback: true}, nil
}

// StylePrompt softens risky words and wraps the prompt in the artistic template
func (s *ImageService) StylePrompt(prompt string) string {
	p := s.policy.Current().Images
	return fmt.Sprintf(imageStyleTemplate, SanitizePrompt(strings.TrimSpace(prompt), p.RiskyWords, p.Replacement))
}

// PromptForDream describes a stored dream for illustration
func (s *ImageService) PromptForDream(d *dream.Dream) string {
	p := s.policy.Current().Images
	content := utils.Truncate(d.Content, p.ContentMaxChars, "")
	if d.Title == "" {
		return content
	}
	return fmt.Sprintf("%s. %s", d.Title, content)
}

// SanitizePrompt replaces each whole-word occurrence of a risky word, ignoring case
func SanitizePrompt(prompt string, riskyWords []string, replacement string) string {
	if len(riskyWords) == 0 {
		return prompt
	}
	quoted := make([]string, 0, len(riskyWords))
	for _, w := range riskyWords {
		if w = strings.TrimSpace(w); w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	if len(quoted) == 0 {
		return prompt
	}
	re := regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	return re.ReplaceAllLiteralString(prompt, replacement)
}
