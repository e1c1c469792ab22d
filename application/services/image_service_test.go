package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dreamspeak/application/ports"
	"dreamspeak/domain/dream"
	"dreamspeak/infrastructure/config"
	pkgerrors "dreamspeak/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSanitizePrompt(t *testing.T) {
	risky := config.DefaultPolicy().Images.RiskyWords

	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{name: "single word", prompt: "a dark forest", want: "a mysterious forest"},
		{name: "case insensitive", prompt: "A DARK Nightmare", want: "A mysterious mysterious"},
		{name: "whole words only", prompt: "darkness and shadows", want: "darkness and shadows"},
		{name: "punctuation boundary", prompt: "death, then light", want: "mysterious, then light"},
		{name: "nothing risky", prompt: "a meadow", want: "a meadow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizePrompt(tt.prompt, risky, "mysterious"))
		})
	}
}

func TestImageService_Generate_Success(t *testing.T) {
	// Arrange
	generator := new(MockImageGenerator)
	service := NewImageService(generator, config.NewPolicyStore(nil), zap.NewNop())
	expectedPrompt := fmt.Sprintf(imageStyleTemplate, "a mysterious tower")
	generator.On("GenerateImage", mock.Anything, expectedPrompt).Return("https://img.example/1.png", nil).Once()

	// Act
	result, err := service.Generate(context.Background(), "  a dark tower ")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/1.png", result.Image.URL)
	assert.False(t, result.Fallback)
	generator.AssertExpectations(t)
}

func TestImageService_Generate_RetriesOnceWithSafePrompt(t *testing.T) {
	// Arrange
	generator := new(MockImageGenerator)
	policy := config.DefaultPolicy()
	service := NewImageService(generator, config.NewPolicyStore(policy), zap.NewNop())

	generator.On("GenerateImage", mock.Anything, mock.MatchedBy(func(p string) bool { return p != policy.Images.SafePrompt })).
		Return("", fmt.Errorf("400 rejected: %w", ports.ErrContentPolicy)).Once()
	generator.On("GenerateImage", mock.Anything, policy.Images.SafePrompt).
		Return("https://img.example/fallback.png", nil).Once()

	// Act
	result, err := service.Generate(context.Background(), "violent storm")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/fallback.png", result.Image.URL)
	assert.True(t, result.Fallback)
	generator.AssertNumberOfCalls(t, "GenerateImage", 2)
}

func TestImageService_Generate_FallbackFailure(t *testing.T) {
	generator := new(MockImageGenerator)
	service := NewImageService(generator, config.NewPolicyStore(nil), zap.NewNop())
	generator.On("GenerateImage", mock.Anything, mock.Anything).Return("", ports.ErrContentPolicy).Twice()

	result, err := service.Generate(context.Background(), "storm")

	assert.Nil(t, result)
	assert.True(t, pkgerrors.IsExternal(err))
	generator.AssertNumberOfCalls(t, "GenerateImage", 2)
}

func TestImageService_Generate_OtherErrorsDoNotRetry(t *testing.T) {
	generator := new(MockImageGenerator)
	service := NewImageService(generator, config.NewPolicyStore(nil), zap.NewNop())
	generator.On("GenerateImage", mock.Anything, mock.Anything).Return("", errors.New("rate limited")).Once()

	_, err := service.Generate(context.Background(), "storm")

	require.Error(t, err)
	assert.Equal(t, "Failed to generate image: rate limited", pkgerrors.GetAppError(err).Message)
	generator.AssertNumberOfCalls(t, "GenerateImage", 1)
}

func TestImageService_Generate_EmptyURLIsNotAnError(t *testing.T) {
	generator := new(MockImageGenerator)
	service := NewImageService(generator, config.NewPolicyStore(nil), zap.NewNop())
	generator.On("GenerateImage", mock.Anything, mock.Anything).Return("", nil)

	result, err := service.Generate(context.Background(), "meadow")

	require.NoError(t, err)
	assert.Equal(t, "", result.Image.URL)
}

func TestImageService_PromptForDream(t *testing.T) {
	service := NewImageService(new(MockImageGenerator), config.NewPolicyStore(nil), zap.NewNop())

	prompt := service.PromptForDream(&dream.Dream{Title: "Flight", Content: "over the red house"})

	assert.Equal(t, "Flight. over the red house", prompt)
}
