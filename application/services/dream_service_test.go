package services

import (
	"context"
	"errors"
	"testing"

	"dreamspeak/domain/dream"
	"dreamspeak/infrastructure/config"
	"dreamspeak/infrastructure/persistence/memory"
	pkgerrors "dreamspeak/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type dreamServiceFixture struct {
	store   *memory.Store
	text    *MockTextGenerator
	images  *MockImageGenerator
	metrics *MockMetrics
	service *DreamService
}

func newDreamServiceFixture() *dreamServiceFixture {
	logger := zap.NewNop()
	policy := config.NewPolicyStore(nil)
	f := &dreamServiceFixture{
		store:   memory.NewStore(),
		text:    new(MockTextGenerator),
		images:  new(MockImageGenerator),
		metrics: new(MockMetrics),
	}
	f.service = NewDreamService(
		f.store,
		f.store,
		NewAnalysisService(f.text, policy, logger),
		NewImageService(f.images, policy, logger),
		policy,
		f.metrics,
		logger,
	)
	return f
}

func TestDreamService_GetDream_NotFound(t *testing.T) {
	f := newDreamServiceFixture()

	d, err := f.service.GetDream(context.Background(), 404)

	assert.Nil(t, d)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestDreamService_UpdateAndDelete_NotFound(t *testing.T) {
	f := newDreamServiceFixture()
	ctx := context.Background()
	title := "x"

	_, err := f.service.UpdateDream(ctx, 9, dream.Patch{Title: &title})
	assert.True(t, pkgerrors.IsNotFound(err))

	assert.True(t, pkgerrors.IsNotFound(f.service.DeleteDream(ctx, 9)))
}

func TestDreamService_SearchDreams_RequiresQuery(t *testing.T) {
	f := newDreamServiceFixture()

	_, err := f.service.SearchDreams(context.Background(), 1, "   ")

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestDreamService_AnalyzeDream_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newDreamServiceFixture()
	f.metrics.On("DreamCreated").Return()
	f.metrics.On("AnalysisCompleted", true).Return()

	for _, content := range []string{"one", "two", "three", "four"} {
		_, err := f.store.CreateDream(ctx, dream.NewDream{UserID: 1, Title: content, Content: content})
		require.NoError(t, err)
	}

	var userPrompt string
	f.text.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { userPrompt = args.String(2) }).
		Return(`{
			"summary": "A long journey across a golden desert toward a door that would not open",
			"archetypes": ["Hero"],
			"symbols": ["door", "desert"],
			"jungianInterpretation": "The door marks a threshold."
		}`, nil)

	// Act
	result, err := f.service.AnalyzeDream(ctx, 1, "I walked toward a door")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, userPrompt, "1. two")
	assert.Contains(t, userPrompt, "3. four")
	assert.NotContains(t, userPrompt, ". one")

	assert.Equal(t, int64(5), result.Dream.ID)
	assert.Equal(t, "A long journey across a golden desert toward a doo...", result.Dream.Title)
	assert.Equal(t, "I walked toward a door", result.Dream.Content)
	require.NotNil(t, result.Dream.Analysis)
	assert.Equal(t, "The door marks a threshold.", *result.Dream.Analysis)
	assert.Equal(t, []string{"Hero"}, result.Dream.Archetypes)
	assert.Equal(t, []string{"door", "desert"}, result.Dream.Symbols)

	require.NotNil(t, result.Message.DreamID)
	assert.Equal(t, result.Dream.ID, *result.Message.DreamID)
	assert.Equal(t, dream.RoleAssistant, result.Message.Role)
	assert.Equal(t, dream.MessageTypeAnalysis, *result.Message.MessageType)
	assert.Equal(t, result.Analysis.Summary, result.Message.Content)
	assert.Equal(t, "Exploration", result.Message.Metadata["individuationStage"])

	thread, err := f.store.GetChatMessages(ctx, &result.Dream.ID)
	require.NoError(t, err)
	assert.Len(t, thread, 1)
	f.metrics.AssertExpectations(t)
}

// chatWriteFailure stores dreams normally but rejects every chat message
type chatWriteFailure struct {
	*memory.Store
}

func (c chatWriteFailure) CreateChatMessage(ctx context.Context, input dream.NewChatMessage) (*dream.ChatMessage, error) {
	return nil, errors.New("throttled")
}

func TestDreamService_AnalyzeDream_MessageFailureKeepsDream(t *testing.T) {
	// Arrange
	ctx := context.Background()
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)
	policy := config.NewPolicyStore(nil)
	store := memory.NewStore()
	text := new(MockTextGenerator)
	metrics := new(MockMetrics)
	metrics.On("DreamCreated").Return()
	metrics.On("AnalysisCompleted", true).Return()
	text.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"summary": "A quiet lake", "archetypes": ["Sage"]}`, nil)

	service := NewDreamService(
		store,
		chatWriteFailure{store},
		NewAnalysisService(text, policy, logger),
		NewImageService(new(MockImageGenerator), policy, logger),
		policy,
		metrics,
		logger,
	)

	// Act
	_, err := service.AnalyzeDream(ctx, 1, "I stood by a lake")

	// Assert
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeDatabase))

	dreams, err := store.GetDreamsByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, dreams, 1)
	assert.Equal(t, "A quiet lake", dreams[0].Title)

	entries := logs.FilterMessage("Analysis message not recorded, dream kept").All()
	require.Len(t, entries, 1)
	assert.Equal(t, dreams[0].ID, entries[0].ContextMap()["dreamID"])
}

func TestDreamService_AnalyzeDream_UpstreamFailureStoresNothing(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newDreamServiceFixture()
	f.metrics.On("AnalysisCompleted", false).Return()
	f.text.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("quota exceeded"))

	// Act
	result, err := f.service.AnalyzeDream(ctx, 1, "I walked toward a door")

	// Assert
	assert.Nil(t, result)
	assert.True(t, pkgerrors.IsExternal(err))
	dreams, err := f.store.GetDreamsByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, dreams)
	recent, err := f.store.GetRecentChatMessages(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
	f.metrics.AssertNotCalled(t, "DreamCreated")
}

func TestDreamService_AnalyzeDream_RequiresContent(t *testing.T) {
	f := newDreamServiceFixture()

	_, err := f.service.AnalyzeDream(context.Background(), 1, "")

	assert.True(t, pkgerrors.IsValidation(err))
	f.text.AssertNotCalled(t, "GenerateJSON", mock.Anything, mock.Anything, mock.Anything)
}

func TestDreamService_IllustrateDream(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newDreamServiceFixture()
	f.metrics.On("ImageGenerated", true, false).Return()

	stored, err := f.store.CreateDream(ctx, dream.NewDream{UserID: 1, Title: "Tower", Content: "a dark tower"})
	require.NoError(t, err)
	f.images.On("GenerateImage", mock.Anything, mock.Anything).Return("https://img.example/t.png", nil)

	// Act
	result, err := f.service.IllustrateDream(ctx, stored.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/t.png", result.Image.URL)
	require.NotNil(t, result.Dream.ImageURL)
	assert.Equal(t, "https://img.example/t.png", *result.Dream.ImageURL)
	assert.Equal(t, dream.MessageTypeImage, *result.Message.MessageType)
	assert.Equal(t, "https://img.example/t.png", result.Message.Metadata["imageUrl"])

	reloaded, err := f.store.GetDream(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/t.png", *reloaded.ImageURL)
	f.metrics.AssertExpectations(t)
}

func TestDreamService_IllustrateDream_MissingDream(t *testing.T) {
	f := newDreamServiceFixture()

	_, err := f.service.IllustrateDream(context.Background(), 77)

	assert.True(t, pkgerrors.IsNotFound(err))
	f.images.AssertNotCalled(t, "GenerateImage", mock.Anything, mock.Anything)
}

func TestPreviousContents(t *testing.T) {
	newestFirst := []*dream.Dream{{Content: "d4"}, {Content: "d3"}, {Content: "d2"}, {Content: "d1"}}

	assert.Equal(t, []string{"d2", "d3", "d4"}, previousContents(newestFirst, 3))
	assert.Equal(t, []string{"d4"}, previousContents(newestFirst[:1], 3))
	assert.Equal(t, []string{}, previousContents(nil, 3))
}
