package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Policy holds the heuristic constants behind insights, analysis and image prompts.
// None of them is derived from a model; they are product choices kept out of code.
type Policy struct {
	Insights InsightsPolicy `yaml:"insights"`
	Analysis AnalysisPolicy `yaml:"analysis"`
	Images   ImagePolicy    `yaml:"images"`
}

// InsightsPolicy configures the insights aggregator
type InsightsPolicy struct {
	ArchetypeDenominator int           `yaml:"archetype_denominator"`
	StreakCap            int           `yaml:"streak_cap"`
	RecentWindowDays     int           `yaml:"recent_window_days"`
	MaxPatterns          int           `yaml:"max_patterns"`
	Patterns             []PatternRule `yaml:"patterns"`
}

// PatternRule emits Name/Description when any of Labels was seen recently
type PatternRule struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Labels      []string `yaml:"labels"`
}

// AnalysisPolicy configures the analysis gateway and the analyze route
type AnalysisPolicy struct {
	PreviousDreamsLimit int `yaml:"previous_dreams_limit"`
	TitleMaxLength      int `yaml:"title_max_length"`
}

// ImagePolicy configures the image gateway
type ImagePolicy struct {
	RiskyWords      []string `yaml:"risky_words"`
	Replacement     string   `yaml:"replacement"`
	SafePrompt      string   `yaml:"safe_prompt"`
	ContentMaxChars int      `yaml:"content_max_chars"`
}

// DefaultPolicy returns the compiled-in constants
func DefaultPolicy() *Policy {
	return &Policy{
		Insights: InsightsPolicy{
			ArchetypeDenominator: 8,
			StreakCap:            30,
			RecentWindowDays:     7,
			MaxPatterns:          3,
			Patterns: []PatternRule{
				{
					Name:        "Heroic Journeys",
					Description: "Your recent dreams feature the Hero archetype, suggesting you are facing challenges that call for courage and growth.",
					Labels:      []string{"Hero"},
				},
				{
					Name:        "Threshold Symbols",
					Description: "Doors, keys and locks point to transitions and new opportunities opening in your waking life.",
					Labels:      []string{"door", "key", "lock"},
				},
				{
					Name:        "Shadow Integration",
					Description: "The Shadow is surfacing, inviting you to acknowledge and integrate hidden parts of yourself.",
					Labels:      []string{"Shadow"},
				},
			},
		},
		Analysis: AnalysisPolicy{
			PreviousDreamsLimit: 3,
			TitleMaxLength:      50,
		},
		Images: ImagePolicy{
			RiskyWords:      []string{"dark", "shadow", "nightmare", "death", "violent", "disturbing"},
			Replacement:     "mysterious",
			SafePrompt:      "A peaceful, surreal dreamscape with soft clouds, gentle light and floating abstract shapes in calming pastel colors, digital art",
			ContentMaxChars: 300,
		},
	}
}

// Validate rejects policies the services cannot use
func (p *Policy) Validate() error {
	if p.Insights.ArchetypeDenominator <= 0 {
		return fmt.Errorf("insights.archetype_denominator must be positive")
	}
	if p.Insights.StreakCap < 0 {
		return fmt.Errorf("insights.streak_cap must not be negative")
	}
	if p.Insights.RecentWindowDays <= 0 {
		return fmt.Errorf("insights.recent_window_days must be positive")
	}
	if p.Insights.MaxPatterns < 0 {
		return fmt.Errorf("insights.max_patterns must not be negative")
	}
	for i, rule := range p.Insights.Patterns {
		if rule.Name == "" || len(rule.Labels) == 0 {
			return fmt.Errorf("insights.patterns[%d] needs a name and at least one label", i)
		}
	}
	if p.Analysis.PreviousDreamsLimit < 0 {
		return fmt.Errorf("analysis.previous_dreams_limit must not be negative")
	}
	if p.Analysis.TitleMaxLength <= 0 {
		return fmt.Errorf("analysis.title_max_length must be positive")
	}
	if p.Images.SafePrompt == "" {
		return fmt.Errorf("images.safe_prompt is required")
	}
	return nil
}

// LoadPolicy overlays the YAML file at path onto the defaults.
// An empty path returns the defaults.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}

	policy, err := ParsePolicy(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	return policy, nil
}

// ParsePolicy decodes YAML over the defaults and validates the result
func ParsePolicy(r io.Reader) (*Policy, error) {
	policy := DefaultPolicy()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(policy); err != nil && err != io.EOF {
		return nil, err
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// PolicyStore hands out the current policy and accepts replacements from the watcher
type PolicyStore struct {
	current atomic.Pointer[Policy]
}

// NewPolicyStore creates a store holding initial
func NewPolicyStore(initial *Policy) *PolicyStore {
	if initial == nil {
		initial = DefaultPolicy()
	}
	s := &PolicyStore{}
	s.current.Store(initial)
	return s
}

// Current returns the active policy; callers must not mutate it
func (s *PolicyStore) Current() *Policy {
	return s.current.Load()
}

// Replace swaps in a new policy after validating it
func (s *PolicyStore) Replace(p *Policy) error {
	if p == nil {
		return fmt.Errorf("nil policy")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.current.Store(p)
	return nil
}
