package services

import (
	"context"
	"testing"
	"time"

	"dreamspeak/domain/dream"
	"dreamspeak/infrastructure/config"
	"dreamspeak/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var insightsNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func seedDreams(t *testing.T, store *memory.Store, inputs ...dream.NewDream) {
	t.Helper()
	for _, in := range inputs {
		_, err := store.CreateDream(context.Background(), in)
		require.NoError(t, err)
	}
}

func newInsightsService(store *memory.Store) *InsightsService {
	return NewInsightsService(store, config.NewPolicyStore(nil), zap.NewNop()).
		WithClock(func() time.Time { return insightsNow })
}

func TestInsightsService_Compute_ZeroDreams(t *testing.T) {
	// Arrange
	service := newInsightsService(memory.NewStore())

	// Act
	insights, err := service.Compute(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, insights.TotalDreams)
	assert.Empty(t, insights.ArchetypeFrequencies)
	assert.NotNil(t, insights.ArchetypeFrequencies)
	assert.Empty(t, insights.SymbolFrequencies)
	assert.Equal(t, 0, insights.UniqueArchetypes)
	assert.Equal(t, 0, insights.IndividuationProgress)
	assert.Empty(t, insights.RecentPatterns)
	assert.Equal(t, 0, insights.DreamStreak)
}

func TestInsightsService_Compute_Frequencies(t *testing.T) {
	// Arrange
	store := memory.NewStore(memory.WithClock(func() time.Time { return insightsNow.Add(-time.Hour) }))
	seedDreams(t, store,
		dream.NewDream{UserID: 1, Title: "a", Content: "a", Archetypes: []string{"Hero", "Shadow"}},
		dream.NewDream{UserID: 1, Title: "b", Content: "b", Archetypes: []string{"Hero"}, Symbols: []string{"door", "water"}},
		dream.NewDream{UserID: 1, Title: "c", Content: "c", Archetypes: []string{"", "Sage"}},
		dream.NewDream{UserID: 1, Title: "d", Content: "d"},
		dream.NewDream{UserID: 2, Title: "other", Content: "x", Archetypes: []string{"Trickster"}},
	)
	service := newInsightsService(store)

	// Act
	insights, err := service.Compute(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, insights.TotalDreams)
	assert.Equal(t, []dream.ArchetypeFrequency{
		{Archetype: "Hero", Count: 2, Frequency: 50},
		{Archetype: "Shadow", Count: 1, Frequency: 25},
		{Archetype: "Sage", Count: 1, Frequency: 25},
	}, insights.ArchetypeFrequencies)
	assert.Equal(t, []dream.SymbolFrequency{
		{Symbol: "door", Count: 1, Frequency: 25},
		{Symbol: "water", Count: 1, Frequency: 25},
	}, insights.SymbolFrequencies)
	assert.Equal(t, 3, insights.UniqueArchetypes)
	assert.Equal(t, 38, insights.IndividuationProgress)
	assert.Equal(t, 4, insights.DreamStreak)
	assert.Equal(t, []dream.Pattern{
		{Name: "Heroic Journeys", Description: config.DefaultPolicy().Insights.Patterns[0].Description},
		{Name: "Threshold Symbols", Description: config.DefaultPolicy().Insights.Patterns[1].Description},
		{Name: "Shadow Integration", Description: config.DefaultPolicy().Insights.Patterns[2].Description},
	}, insights.RecentPatterns)
}

func TestInsightsService_Compute_ProgressAndStreakCaps(t *testing.T) {
	// Arrange
	store := memory.NewStore()
	labels := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
	for i := 0; i < 35; i++ {
		seedDreams(t, store, dream.NewDream{
			UserID:     1,
			Title:      "t",
			Content:    "c",
			Archetypes: []string{labels[i%len(labels)]},
		})
	}
	service := newInsightsService(store)

	// Act
	insights, err := service.Compute(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 10, insights.UniqueArchetypes)
	assert.Equal(t, 100, insights.IndividuationProgress)
	assert.Equal(t, 30, insights.DreamStreak)
}

func TestInsightsService_Compute_RecentWindow(t *testing.T) {
	// Arrange: one old Hero dream and one recent key dream
	times := []time.Time{insightsNow.Add(-10 * 24 * time.Hour), insightsNow.Add(-2 * 24 * time.Hour)}
	i := 0
	store := memory.NewStore(memory.WithClock(func() time.Time {
		t := times[i]
		i++
		return t
	}))
	seedDreams(t, store,
		dream.NewDream{UserID: 1, Title: "old", Content: "c", Archetypes: []string{"Hero"}},
		dream.NewDream{UserID: 1, Title: "new", Content: "c", Symbols: []string{"key"}},
	)
	service := newInsightsService(store)

	// Act
	insights, err := service.Compute(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	require.Len(t, insights.RecentPatterns, 1)
	assert.Equal(t, "Threshold Symbols", insights.RecentPatterns[0].Name)
}

func TestInsightsService_Compute_PatternLabelsMatchExactly(t *testing.T) {
	// Arrange
	store := memory.NewStore()
	seedDreams(t, store,
		dream.NewDream{UserID: 1, Title: "a", Content: "c", Archetypes: []string{"hero", "SHADOW"}, Symbols: []string{"Door"}},
		dream.NewDream{UserID: 1, Title: "b", Content: "c", Symbols: []string{"lock"}},
	)
	service := newInsightsService(store)

	// Act
	insights, err := service.Compute(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	require.Len(t, insights.RecentPatterns, 1)
	assert.Equal(t, "Threshold Symbols", insights.RecentPatterns[0].Name)
}

func TestInsightsService_Compute_UsesCurrentPolicy(t *testing.T) {
	// Arrange
	store := memory.NewStore()
	seedDreams(t, store, dream.NewDream{UserID: 1, Title: "t", Content: "c", Archetypes: []string{"Hero", "Shadow"}})

	policies := config.NewPolicyStore(nil)
	service := NewInsightsService(store, policies, zap.NewNop())

	updated := config.DefaultPolicy()
	updated.Insights.ArchetypeDenominator = 4
	updated.Insights.MaxPatterns = 1
	require.NoError(t, policies.Replace(updated))

	// Act
	insights, err := service.Compute(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 50, insights.IndividuationProgress)
	require.Len(t, insights.RecentPatterns, 1)
	assert.Equal(t, "Heroic Journeys", insights.RecentPatterns[0].Name)
}
