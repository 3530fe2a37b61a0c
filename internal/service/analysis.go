package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/dishlingo/internal/domain"
	"github.com/timmy/dishlingo/internal/logger"
	"github.com/timmy/dishlingo/internal/metrics"
)

// MenuAnalysisService runs the menu pipeline:
// validating -> extracting -> (enriching | done).
type MenuAnalysisService struct {
	validator *MenuValidator
	extractor *DishExtractor
	enricher  *Enricher
	logger    *logger.Logger

	minImages         int
	maxImages         int
	enrichmentEnabled bool
}

// AnalysisConfig holds configuration for the analysis service.
type AnalysisConfig struct {
	MinImages         int
	MaxImages         int
	EnrichmentEnabled bool
}

// AnalyzeRequest is one batch of menu photos.
type AnalyzeRequest struct {
	Images         []domain.ImageInput `json:"images"`
	SkipEnrichment bool                `json:"skip_enrichment"`
}

// NewMenuAnalysisService creates a new analysis service around one gateway.
// The gateway is shared by every stage and every request.
func NewMenuAnalysisService(gateway InferenceGateway, log *logger.Logger, cfg *AnalysisConfig) *MenuAnalysisService {
	if cfg == nil {
		cfg = &AnalysisConfig{MinImages: 1, MaxImages: 5, EnrichmentEnabled: true}
	}
	minImages, maxImages := cfg.MinImages, cfg.MaxImages
	if minImages <= 0 {
		minImages = 1
	}
	if maxImages < minImages {
		maxImages = minImages
	}

	return &MenuAnalysisService{
		validator:         NewMenuValidator(gateway),
		extractor:         NewDishExtractor(gateway),
		enricher:          NewEnricher(gateway),
		logger:            log,
		minImages:         minImages,
		maxImages:         maxImages,
		enrichmentEnabled: cfg.EnrichmentEnabled,
	}
}

// log returns a logger from context if available, otherwise the service logger
func (s *MenuAnalysisService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// Analyze runs the pipeline for one batch.
// Parameters:
//   - ctx: request context. Its values are kept but its cancellation is not,
//     so a started batch runs to completion.
//   - req: images (1..5 by default) and the skip_enrichment flag.
//
// Returns:
//   - *domain.AnalysisResult: dishes in page order.
//   - error: *AnalysisError for BatchSize, NotMenuImages or NoDishesExtracted.
func (s *MenuAnalysisService) Analyze(ctx context.Context, req *AnalyzeRequest) (*domain.AnalysisResult, error) {
	if req == nil {
		req = &AnalyzeRequest{}
	}
	if n := len(req.Images); n < s.minImages || n > s.maxImages {
		s.finish(ctx, KindBatchSize)
		return nil, batchSizeError(n, s.minImages, s.maxImages)
	}

	result := &domain.AnalysisResult{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
	}
	ctx = context.WithoutCancel(ctx)
	ctx = logger.SetComponent(logger.SetAnalysisID(ctx, result.ID), "analysis")

	s.log(ctx).WithField("images", len(req.Images)).Info("Analysis started")

	// Validating
	result.Stage = domain.StageValidating
	isMenu := s.runStage(ctx, result.Stage, func(stageCtx context.Context) bool {
		return s.validator.Validate(stageCtx, req.Images)
	})
	if !isMenu {
		s.finish(ctx, KindNotMenuImages)
		return nil, ErrNotMenuImages
	}

	// Extracting
	result.Stage = domain.StageExtracting
	var outcomes []PageOutcome
	s.runStage(ctx, result.Stage, func(stageCtx context.Context) bool {
		outcomes = s.extractor.ExtractAll(stageCtx, req.Images)
		return true
	})

	for _, o := range outcomes {
		if o.Skipped() {
			result.Skipped = append(result.Skipped, domain.SkippedPage{Page: o.Page, Reason: o.Err.Error()})
			continue
		}
		result.Dishes = append(result.Dishes, o.Dishes...)
	}
	if len(result.Dishes) == 0 {
		s.finish(ctx, KindNoDishesExtracted)
		return nil, ErrNoDishesExtracted
	}

	// Enriching
	if !req.SkipEnrichment && s.enrichmentEnabled {
		result.Stage = domain.StageEnriching
		s.runStage(ctx, result.Stage, func(stageCtx context.Context) bool {
			result.Dishes = s.enricher.Enrich(stageCtx, result.Dishes)
			return true
		})
		result.Enriched = true
	}

	result.Stage = domain.StageDone
	result.CompletedAt = time.Now()
	s.finish(ctx, "ok")
	metrics.DishesPerAnalysis.Observe(float64(len(result.Dishes)))

	logger.With(logger.Fields{
		"skipped_pages": len(result.Skipped),
		"enriched":      result.Enriched,
	}).WithCount(len(result.Dishes)).
		WithDuration(result.CompletedAt.Sub(result.StartedAt).Milliseconds()).
		Info(ctx, "Analysis completed")

	return result, nil
}

// Pronunciations exposes the enrichment pronunciation lookup on its own.
func (s *MenuAnalysisService) Pronunciations(ctx context.Context, names []string) map[string]string {
	ctx = logger.SetComponent(context.WithoutCancel(ctx), "pronunciations")
	return s.enricher.Pronunciations(ctx, names)
}

// Allergens exposes the enrichment allergen lookup on its own.
func (s *MenuAnalysisService) Allergens(ctx context.Context, items []domain.AllergenQuery) map[string]string {
	ctx = logger.SetComponent(context.WithoutCancel(ctx), "allergens")
	return s.enricher.Allergens(ctx, items)
}

// runStage tags the context with the stage, times it and records the duration.
func (s *MenuAnalysisService) runStage(ctx context.Context, stage domain.AnalysisStage, fn func(context.Context) bool) bool {
	start := time.Now()
	stageCtx := logger.SetStage(ctx, string(stage))

	ok := fn(stageCtx)

	elapsed := time.Since(start)
	metrics.StageDuration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
	logger.With(nil).WithDuration(elapsed.Milliseconds()).Debug(stageCtx, "Stage finished")
	return ok
}

func (s *MenuAnalysisService) finish(ctx context.Context, outcome ErrorKind) {
	metrics.AnalysisOutcomes.WithLabelValues(string(outcome)).Inc()
	if outcome != "ok" {
		logger.CtxWarn(ctx, "Analysis rejected: status=%s", outcome)
	}
}
