// Package resilience wraps the AI generators in circuit breakers so a failing
// provider is short-circuited instead of called on every request.
package resilience

import (
	"context"
	"errors"
	"time"

	"dreamspeak/application/ports"
	pkgerrors "dreamspeak/pkg/errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for a circuit breaker
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// FailureThreshold and MinRequests decide when to trip
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the default configuration for name
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

func newBreaker(cfg BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// A refused prompt or a canceled request says nothing about provider health
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ports.ErrContentPolicy) ||
				errors.Is(err, context.Canceled)
		},
	})
}

// breakerError turns gobreaker's rejections into UNAVAILABLE AppErrors
func breakerError(name string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return pkgerrors.NewUnavailableError(name).WithCause(err)
	}
	return err
}

// TextGenerator decorates a ports.TextGenerator with a circuit breaker
type TextGenerator struct {
	next    ports.TextGenerator
	breaker *gobreaker.CircuitBreaker
}

var _ ports.TextGenerator = (*TextGenerator)(nil)

// NewTextGenerator wraps next
func NewTextGenerator(next ports.TextGenerator, cfg BreakerConfig, logger *zap.Logger) *TextGenerator {
	return &TextGenerator{next: next, breaker: newBreaker(cfg, logger)}
}

// GenerateJSON calls through the breaker
func (g *TextGenerator) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.GenerateJSON(ctx, systemPrompt, userPrompt)
	})
	if err != nil {
		return "", breakerError(g.breaker.Name(), err)
	}
	return out.(string), nil
}

// State reports the breaker state
func (g *TextGenerator) State() gobreaker.State {
	return g.breaker.State()
}

// ImageGenerator decorates a ports.ImageGenerator with a circuit breaker
type ImageGenerator struct {
	next    ports.ImageGenerator
	breaker *gobreaker.CircuitBreaker
}

var _ ports.ImageGenerator = (*ImageGenerator)(nil)

// NewImageGenerator wraps next
func NewImageGenerator(next ports.ImageGenerator, cfg BreakerConfig, logger *zap.Logger) *ImageGenerator {
	return &ImageGenerator{next: next, breaker: newBreaker(cfg, logger)}
}

// GenerateImage calls through the breaker
func (g *ImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.GenerateImage(ctx, prompt)
	})
	if err != nil {
		return "", breakerError(g.breaker.Name(), err)
	}
	return out.(string), nil
}

// State reports the breaker state
func (g *ImageGenerator) State() gobreaker.State {
	return g.breaker.State()
}
