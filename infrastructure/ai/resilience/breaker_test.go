package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dreamspeak/application/ports"
	pkgerrors "dreamspeak/pkg/errors"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func testConfig(name string) BreakerConfig {
	cfg := DefaultBreakerConfig(name)
	cfg.MinRequests = 2
	cfg.FailureThreshold = 1.0
	return cfg
}

func TestTextGenerator_PassesThrough(t *testing.T) {
	next := new(MockTextGenerator)
	next.On("GenerateJSON", mock.Anything, "s", "u").Return("{}", nil)
	g := NewTextGenerator(next, testConfig("analysis"), zap.NewNop())

	out, err := g.GenerateJSON(context.Background(), "s", "u")

	assert.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, gobreaker.StateClosed, g.State())
}

func TestTextGenerator_OpensAfterFailures(t *testing.T) {
	// Arrange
	next := new(MockTextGenerator)
	next.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("boom"))
	g := NewTextGenerator(next, testConfig("analysis"), zap.NewNop())
	ctx := context.Background()

	// Act
	_, err1 := g.GenerateJSON(ctx, "s", "u")
	_, err2 := g.GenerateJSON(ctx, "s", "u")
	_, err3 := g.GenerateJSON(ctx, "s", "u")

	// Assert
	assert.EqualError(t, err1, "boom")
	assert.EqualError(t, err2, "boom")
	assert.True(t, pkgerrors.IsType(err3, pkgerrors.ErrorTypeUnavailable))
	assert.Equal(t, gobreaker.StateOpen, g.State())
	next.AssertNumberOfCalls(t, "GenerateJSON", 2)
}

func TestImageGenerator_ContentPolicyDoesNotTrip(t *testing.T) {
	next := new(MockImageGenerator)
	next.On("GenerateImage", mock.Anything, mock.Anything).Return("", fmt.Errorf("rejected: %w", ports.ErrContentPolicy))
	g := NewImageGenerator(next, testConfig("images"), zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := g.GenerateImage(context.Background(), "p")
		assert.ErrorIs(t, err, ports.ErrContentPolicy)
	}

	assert.Equal(t, gobreaker.StateClosed, g.State())
	next.AssertNumberOfCalls(t, "GenerateImage", 5)
}
