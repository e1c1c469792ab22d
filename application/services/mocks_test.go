package services

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Mock implementations for testing

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

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) DreamCreated() {
	m.Called()
}

func (m *MockMetrics) AnalysisCompleted(success bool) {
	m.Called(success)
}

func (m *MockMetrics) ImageGenerated(success, fallback bool) {
	m.Called(success, fallback)
}
