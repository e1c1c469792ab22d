package services

import (
	"context"
	"errors"
	"strings"

	"dreamspeak/application/ports"
	"dreamspeak/domain/dream"
	"dreamspeak/infrastructure/config"
	pkgerrors "dreamspeak/pkg/errors"
	"dreamspeak/pkg/utils"

	"go.uber.org/zap"
)

// DreamService is the entry point for dream records: plain CRUD and search over
// the repository, plus the analyze and illustrate flows that attach AI output
// to a dream and record it in the chat log.
type DreamService struct {
	dreams   ports.DreamRepository
	chat     ports.ChatRepository
	analysis *AnalysisService
	images   *ImageService
	policy   *config.PolicyStore
	metrics  ports.MetricsRecorder
	logger   *zap.Logger
}

// NewDreamService creates a new dream service
func NewDreamService(
	dreams ports.DreamRepository,
	chat ports.ChatRepository,
	analysis *AnalysisService,
	images *ImageService,
	policy *config.PolicyStore,
	metrics ports.MetricsRecorder,
	logger *zap.Logger,
) *DreamService {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &DreamService{
		dreams:   dreams,
		chat:     chat,
		analysis: analysis,
		images:   images,
		policy:   policy,
		metrics:  metrics,
		logger:   logger,
	}
}

// AnalyzeResult is the outcome of analyzing and recording a new dream
type AnalyzeResult struct {
	Dream    *dream.Dream       `json:"dream"`
	Analysis *dream.Analysis    `json:"analysis"`
	Message  *dream.ChatMessage `json:"message"`
}

// IllustrateResult is the outcome of generating an image for a stored dream
type IllustrateResult struct {
	Dream   *dream.Dream       `json:"dream"`
	Image   dream.Image        `json:"image"`
	Message *dream.ChatMessage `json:"message"`
}

// CreateDream stores a dream as given
func (s *DreamService) CreateDream(ctx context.Context, input dream.NewDream) (*dream.Dream, error) {
	created, err := s.dreams.CreateDream(ctx, input)
	if err != nil {
		return nil, s.repositoryError("create dream", err)
	}
	s.metrics.DreamCreated()

	s.logger.Info("Dream created",
		zap.Int64("dreamID", created.ID),
		zap.Int64("userID", created.UserID),
	)
	return created, nil
}

// GetDream returns a dream or a NOT_FOUND AppError
func (s *DreamService) GetDream(ctx context.Context, id int64) (*dream.Dream, error) {
	d, err := s.dreams.GetDream(ctx, id)
	if err != nil {
		return nil, s.repositoryError("get dream", err)
	}
	return d, nil
}

// ListDreams returns the user's dreams, newest first
func (s *DreamService) ListDreams(ctx context.Context, userID int64) ([]*dream.Dream, error) {
	dreams, err := s.dreams.GetDreamsByUserID(ctx, userID)
	if err != nil {
		return nil, s.repositoryError("list dreams", err)
	}
	return dreams, nil
}

// UpdateDream applies a partial update
func (s *DreamService) UpdateDream(ctx context.Context, id int64, patch dream.Patch) (*dream.Dream, error) {
	updated, err := s.dreams.UpdateDream(ctx, id, patch)
	if err != nil {
		return nil, s.repositoryError("update dream", err)
	}
	s.logger.Debug("Dream updated", zap.Int64("dreamID", id))
	return updated, nil
}

// DeleteDream removes a dream. Chat messages that reference it are left in place.
func (s *DreamService) DeleteDream(ctx context.Context, id int64) error {
	if err := s.dreams.DeleteDream(ctx, id); err != nil {
		return s.repositoryError("delete dream", err)
	}
	s.logger.Info("Dream deleted", zap.Int64("dreamID", id))
	return nil
}

// SearchDreams finds the user's dreams matching query
func (s *DreamService) SearchDreams(ctx context.Context, userID int64, query string) ([]*dream.Dream, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.NewValidationError("Search query is required")
	}
	dreams, err := s.dreams.SearchDreams(ctx, userID, query)
	if err != nil {
		return nil, s.repositoryError("search dreams", err)
	}
	return dreams, nil
}

// AnalyzeDream analyzes content against the user's recent dreams, stores the new
// dream with the analysis attached and records the analysis in its chat thread
func (s *DreamService) AnalyzeDream(ctx context.Context, userID int64, content string) (*AnalyzeResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.NewValidationError("Dream content is required")
	}

	policy := s.policy.Current().Analysis

	existing, err := s.dreams.GetDreamsByUserID(ctx, userID)
	if err != nil {
		return nil, s.repositoryError("list dreams", err)
	}
	previous := previousContents(existing, policy.PreviousDreamsLimit)

	analysis, err := s.analysis.Analyze(ctx, content, previous)
	if err != nil {
		s.metrics.AnalysisCompleted(false)
		return nil, err
	}
	s.metrics.AnalysisCompleted(true)

	created, err := s.CreateDream(ctx, dream.NewDream{
		UserID:     userID,
		Title:      utils.Truncate(analysis.Summary, policy.TitleMaxLength, DefaultSummary),
		Content:    content,
		Analysis:   dream.StringPtr(analysis.JungianInterpretation),
		Archetypes: analysis.Archetypes,
		Symbols:    analysis.Symbols,
	})
	if err != nil {
		return nil, err
	}

	message, err := s.chat.CreateChatMessage(ctx, dream.NewChatMessage{
		DreamID:     &created.ID,
		Role:        dream.RoleAssistant,
		Content:     analysis.Summary,
		MessageType: dream.StringPtr(dream.MessageTypeAnalysis),
		Metadata:    analysisMetadata(analysis),
	})
	if err != nil {
		// The dream stays stored without its analysis message
		s.logger.Warn("Analysis message not recorded, dream kept",
			zap.Int64("dreamID", created.ID),
			zap.Int64("userID", userID),
			zap.Error(err),
		)
		return nil, s.repositoryError("record analysis message", err)
	}

	return &AnalyzeResult{Dream: created, Analysis: analysis, Message: message}, nil
}

// IllustrateDream generates an image for a stored dream, attaches the URL and
// records the image in the dream's chat thread
func (s *DreamService) IllustrateDream(ctx context.Context, dreamID int64) (*IllustrateResult, error) {
	d, err := s.GetDream(ctx, dreamID)
	if err != nil {
		return nil, err
	}

	result, err := s.GenerateImage(ctx, s.images.PromptForDream(d))
	if err != nil {
		return nil, err
	}

	updated, err := s.UpdateDream(ctx, dreamID, dream.Patch{ImageURL: dream.SetTo(result.Image.URL)})
	if err != nil {
		return nil, err
	}

	message, err := s.chat.CreateChatMessage(ctx, dream.NewChatMessage{
		DreamID:     &updated.ID,
		Role:        dream.RoleAssistant,
		Content:     "Here is an artistic visualization of your dream.",
		MessageType: dream.StringPtr(dream.MessageTypeImage),
		Metadata:    map[string]any{"imageUrl": result.Image.URL},
	})
	if err != nil {
		return nil, s.repositoryError("record image message", err)
	}

	return &IllustrateResult{Dream: updated, Image: result.Image, Message: message}, nil
}

// GenerateImage illustrates a free-form prompt without touching any dream
func (s *DreamService) GenerateImage(ctx context.Context, prompt string) (*ImageResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, pkgerrors.NewValidationError("Prompt is required")
	}
	result, err := s.images.Generate(ctx, prompt)
	if err != nil {
		s.metrics.ImageGenerated(false, false)
		return nil, err
	}
	s.metrics.ImageGenerated(true, result.Fallback)
	return result, nil
}

// repositoryError maps repository failures onto AppErrors
func (s *DreamService) repositoryError(op string, err error) error {
	if errors.Is(err, ports.ErrNotFound) {
		return pkgerrors.NewNotFoundError("Dream")
	}
	if pkgerrors.IsAppError(err) {
		return err
	}
	s.logger.Error("Repository operation failed", zap.String("operation", op), zap.Error(err))
	return pkgerrors.NewDatabaseError(op, err)
}

// previousContents returns the contents of the newest limit dreams, oldest first
func previousContents(newestFirst []*dream.Dream, limit int) []string {
	if limit > len(newestFirst) {
		limit = len(newestFirst)
	}
	out := make([]string, 0, limit)
	for i := limit - 1; i >= 0; i-- {
		out = append(out, newestFirst[i].Content)
	}
	return out
}

// analysisMetadata flattens an analysis into chat message metadata
func analysisMetadata(a *dream.Analysis) map[string]any {
	return map[string]any{
		"summary":    a.Summary,
		"archetypes": a.Archetypes,
		"symbols":    a.Symbols,
		"predominantSymbol": map[string]any{
			"name":                a.PredominantSymbol.Name,
			"meaning":             a.PredominantSymbol.Meaning,
			"jungianSignificance": a.PredominantSymbol.JungianSignificance,
		},
		"jungianInterpretation": a.JungianInterpretation,
		"shadowWork":            a.ShadowWork,
		"individuationStage":    a.IndividuationStage,
		"emotionalTone":         a.EmotionalTone,
		"recommendations":       a.Recommendations,
	}
}
