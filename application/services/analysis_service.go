package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dreamspeak/application/ports"
	"dreamspeak/domain/dream"
	"dreamspeak/infrastructure/config"
	pkgerrors "dreamspeak/pkg/errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Defaults substituted for fields the model leaves out or mistypes
const (
	DefaultSummary               = "Dream analysis completed"
	DefaultSymbolName            = "Unknown"
	DefaultSymbolMeaning         = "Symbol meaning unclear"
	DefaultSymbolSignificance    = "Requires further analysis"
	DefaultJungianInterpretation = "This dream contains meaningful symbolic content."
	DefaultShadowWork            = "Consider what aspects of yourself might be represented in this dream."
	DefaultIndividuationStage    = "Exploration"
	DefaultEmotionalTone         = "Neutral"
)

const analysisSystemPrompt = `You are a Jungian dream analyst with deep knowledge of archetypes, the collective unconscious, shadow work and the individuation process. You interpret dreams with warmth and psychological depth, never with certainty or diagnosis. Always answer with a single JSON object and nothing else.`

// AnalysisService turns dream text into a structured Jungian analysis by calling
// a text generator. It performs one upstream call per request with no retry.
type AnalysisService struct {
	generator ports.TextGenerator
	policy    *config.PolicyStore
	logger    *zap.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(generator ports.TextGenerator, policy *config.PolicyStore, logger *zap.Logger) *AnalysisService {
	return &AnalysisService{
		generator: generator,
		policy:    policy,
		logger:    logger,
	}
}

// Analyze interprets dreamContent in the light of the most recent previousDreams.
// Upstream or parse failures come back as an EXTERNAL AppError.
func (s *AnalysisService) Analyze(ctx context.Context, dreamContent string, previousDreams []string) (*dream.Analysis, error) {
	ctx, span := otel.Tracer("dreamspeak/analysis").Start(ctx, "AnalysisService.Analyze")
	defer span.End()

	limit := s.policy.Current().Analysis.PreviousDreamsLimit
	if len(previousDreams) > limit {
		previousDreams = previousDreams[len(previousDreams)-limit:]
	}
	span.SetAttributes(
		attribute.Int("dream.content_length", len(dreamContent)),
		attribute.Int("dream.previous_count", len(previousDreams)),
	)

	response, err := s.generator.GenerateJSON(ctx, analysisSystemPrompt, s.buildAnalysisPrompt(dreamContent, previousDreams))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		if pkgerrors.IsType(err, pkgerrors.ErrorTypeUnavailable) {
			return nil, err
		}
		s.logger.Error("Dream analysis request failed", zap.Error(err))
		return nil, pkgerrors.NewExternalError("Failed to analyze dream", err)
	}

	analysis, err := ParseAnalysis(response)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unparseable response")
		s.logger.Error("Dream analysis response was not valid JSON",
			zap.Int("responseLength", len(response)),
			zap.Error(err),
		)
		return nil, pkgerrors.NewExternalError("Failed to analyze dream", err)
	}

	s.logger.Debug("Dream analyzed",
		zap.Int("archetypes", len(analysis.Archetypes)),
		zap.Int("symbols", len(analysis.Symbols)),
		zap.String("emotionalTone", analysis.EmotionalTone),
	)
	return analysis, nil
}

// buildAnalysisPrompt creates the user prompt for a single dream
func (s *AnalysisService) buildAnalysisPrompt(content string, previous []string) string {
	history := "No previous dreams recorded."
	if len(previous) > 0 {
		lines := make([]string, len(previous))
		for i, p := range previous {
			lines[i] = fmt.Sprintf("%d. %s", i+1, p)
		}
		history = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`Analyze the following dream from a Jungian perspective.

Dream:
%s

Previous dreams for context:
%s

Return a JSON object with this structure:
{
  "summary": "one or two sentence summary of the dream",
  "archetypes": ["archetypes present, e.g. Hero, Shadow, Anima, Wise Old Man"],
  "symbols": ["key symbols in the dream"],
  "predominantSymbol": {"name": "symbol", "meaning": "personal meaning", "jungianSignificance": "significance in Jungian terms"},
  "jungianInterpretation": "a thorough interpretation",
  "shadowWork": "guidance on shadow aspects",
  "individuationStage": "where the dreamer may be in the individuation process",
  "emotionalTone": "the dominant emotional tone",
  "recommendations": ["reflective practices or journaling prompts"]
}
`, content, history)
}

// ParseAnalysis decodes a model reply into an Analysis. Markdown code fences are
// stripped; absent, empty or mistyped fields are replaced with defaults. Only a
// reply that is not a JSON object is an error.
func ParseAnalysis(response string) (*dream.Analysis, error) {
	response = stripCodeFence(response)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(response), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	analysis := &dream.Analysis{
		Summary:               stringField(fields["summary"], DefaultSummary),
		Archetypes:            stringListField(fields["archetypes"]),
		Symbols:               stringListField(fields["symbols"]),
		PredominantSymbol:     symbolField(fields["predominantSymbol"]),
		JungianInterpretation: stringField(fields["jungianInterpretation"], DefaultJungianInterpretation),
		ShadowWork:            stringField(fields["shadowWork"], DefaultShadowWork),
		IndividuationStage:    stringField(fields["individuationStage"], DefaultIndividuationStage),
		EmotionalTone:         stringField(fields["emotionalTone"], DefaultEmotionalTone),
		Recommendations:       stringListField(fields["recommendations"]),
	}
	return analysis, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence
func stripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, "```") {
		return response
	}
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

func stringField(raw json.RawMessage, fallback string) string {
	if len(raw) == 0 {
		return fallback
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// stringListField keeps the string entries of a JSON array; anything else yields []
func stringListField(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func symbolField(raw json.RawMessage) dream.PredominantSymbol {
	var fields map[string]json.RawMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			fields = nil
		}
	}
	return dream.PredominantSymbol{
		Name:                stringField(fields["name"], DefaultSymbolName),
		Meaning:             stringField(fields["meaning"], DefaultSymbolMeaning),
		JungianSignificance: stringField(fields["jungianSignificance"], DefaultSymbolSignificance),
	}
}
