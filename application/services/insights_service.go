package services

import (
	"context"
	"math"
	"time"

	"dreamspeak/application/ports"
	"dreamspeak/domain/dream"
	"dreamspeak/infrastructure/config"
	pkgerrors "dreamspeak/pkg/errors"

	"go.uber.org/zap"
)

// InsightsService aggregates a user's dreams into frequency tables and pattern
// observations. Nothing is cached; every call reads the full dream set.
type InsightsService struct {
	dreams ports.DreamRepository
	policy *config.PolicyStore
	now    func() time.Time
	logger *zap.Logger
}

// NewInsightsService creates a new insights service
func NewInsightsService(dreams ports.DreamRepository, policy *config.PolicyStore, logger *zap.Logger) *InsightsService {
	return &InsightsService{
		dreams: dreams,
		policy: policy,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock replaces the clock used for the recent-pattern window
func (s *InsightsService) WithClock(now func() time.Time) *InsightsService {
	s.now = now
	return s
}

// Compute builds the insights for userID
func (s *InsightsService) Compute(ctx context.Context, userID int64) (*dream.Insights, error) {
	dreams, err := s.dreams.GetDreamsByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load dreams for insights", zap.Int64("userID", userID), zap.Error(err))
		return nil, pkgerrors.NewDatabaseError("load dreams", err)
	}

	p := s.policy.Current().Insights
	total := len(dreams)

	insights := &dream.Insights{
		TotalDreams:          total,
		ArchetypeFrequencies: []dream.ArchetypeFrequency{},
		SymbolFrequencies:    []dream.SymbolFrequency{},
		RecentPatterns:       []dream.Pattern{},
	}
	if total == 0 {
		return insights, nil
	}

	archetypes := newLabelCounter()
	symbols := newLabelCounter()
	for _, d := range dreams {
		archetypes.add(d.Archetypes...)
		symbols.add(d.Symbols...)
	}

	for _, c := range archetypes.sorted() {
		insights.ArchetypeFrequencies = append(insights.ArchetypeFrequencies, dream.ArchetypeFrequency{
			Archetype: c.label,
			Count:     c.count,
			Frequency: percent(c.count, total),
		})
	}
	for _, c := range symbols.sorted() {
		insights.SymbolFrequencies = append(insights.SymbolFrequencies, dream.SymbolFrequency{
			Symbol:    c.label,
			Count:     c.count,
			Frequency: percent(c.count, total),
		})
	}

	insights.UniqueArchetypes = len(archetypes.order)
	insights.IndividuationProgress = min(percent(insights.UniqueArchetypes, p.ArchetypeDenominator), 100)
	insights.RecentPatterns = s.recentPatterns(dreams, p)
	insights.DreamStreak = min(total, p.StreakCap)

	s.logger.Debug("Insights computed",
		zap.Int64("userID", userID),
		zap.Int("totalDreams", total),
		zap.Int("uniqueArchetypes", insights.UniqueArchetypes),
		zap.Int("patterns", len(insights.RecentPatterns)),
	)

	return insights, nil
}

// recentPatterns matches labels from dreams inside the trailing window against the
// rule table. Labels are compared exactly, case included.
func (s *InsightsService) recentPatterns(dreams []*dream.Dream, p config.InsightsPolicy) []dream.Pattern {
	cutoff := s.now().Add(-time.Duration(p.RecentWindowDays) * 24 * time.Hour)

	seen := make(map[string]bool)
	for _, d := range dreams {
		if d.CreatedAt.Before(cutoff) {
			continue
		}
		for _, label := range d.Labels() {
			seen[label] = true
		}
	}

	patterns := []dream.Pattern{}
	for _, rule := range p.Patterns {
		if len(patterns) >= p.MaxPatterns {
			break
		}
		for _, label := range rule.Labels {
			if seen[label] {
				patterns = append(patterns, dream.Pattern{Name: rule.Name, Description: rule.Description})
				break
			}
		}
	}
	return patterns
}

type labelCount struct {
	label string
	count int
}

// labelCounter counts labels while remembering first-seen order
type labelCounter struct {
	counts map[string]int
	order  []string
}

func newLabelCounter() *labelCounter {
	return &labelCounter{counts: make(map[string]int)}
}

func (c *labelCounter) add(labels ...string) {
	for _, label := range labels {
		if label == "" {
			continue
		}
		if _, ok := c.counts[label]; !ok {
			c.order = append(c.order, label)
		}
		c.counts[label]++
	}
}

// sorted returns counts descending; equal counts keep first-seen order
func (c *labelCounter) sorted() []labelCount {
	out := make([]labelCount, 0, len(c.order))
	for _, label := range c.order {
		out = append(out, labelCount{label: label, count: c.counts[label]})
	}
	// insertion sort is stable and the lists are short
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].count > out[j-1].count; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
