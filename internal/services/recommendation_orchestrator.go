package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/popcornpick/internal/config"
	"github.com/temcen/popcornpick/pkg/models"
)

// RecommendationResult is the outcome of one recommendation run.
type RecommendationResult struct {
	Movies      []models.Movie `json:"movies"`
	Source      string         `json:"source"`
	Fallback    bool           `json:"fallback"`
	Candidates  int            `json:"candidates"`
	Survivors   int            `json:"survivors"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// RecommendationOrchestrator runs the aggregate, fetch, filter, score and
// rank pipeline for a household.
type RecommendationOrchestrator struct {
	source   CandidateSource
	fallback CandidateSource
	filter   *CandidateFilter
	scorer   *MatchScorer
	config   *config.RecommendationConfig
	metrics  *RecommendationMetrics
	logger   *logrus.Logger
}

// NewRecommendationOrchestrator creates an orchestrator. fallback is only
// consulted when the catalog failure policy is "sample".
func NewRecommendationOrchestrator(
	source CandidateSource,
	fallback CandidateSource,
	cfg *config.RecommendationConfig,
	metrics *RecommendationMetrics,
	logger *logrus.Logger,
) *RecommendationOrchestrator {
	return &RecommendationOrchestrator{
		source:   source,
		fallback: fallback,
		filter:   NewCandidateFilter(cfg.UnratedPolicy == config.UnratedReject),
		scorer:   NewMatchScorer(),
		config:   cfg,
		metrics:  metrics,
		logger:   logger,
	}
}

// GetRecommendations returns the ranked shortlist for the given profiles.
// An empty slice means nothing matched.
func (o *RecommendationOrchestrator) GetRecommendations(
	ctx context.Context,
	answers models.QuestionnaireAnswers,
	profiles []models.Profile,
) ([]models.Movie, error) {
	result, err := o.GenerateRecommendations(ctx, answers, profiles)
	if err != nil {
		return nil, err
	}
	return result.Movies, nil
}

// GenerateRecommendations is GetRecommendations with pipeline details.
func (o *RecommendationOrchestrator) GenerateRecommendations(
	ctx context.Context,
	answers models.QuestionnaireAnswers,
	profiles []models.Profile,
) (*RecommendationResult, error) {
	startTime := time.Now()

	constraints, err := AggregateConstraints(profiles)
	if err != nil {
		o.metrics.requests.WithLabelValues("none", "empty_selection").Inc()
		return nil, err
	}

	candidates, sourceName, fallback, err := o.fetchCandidates(ctx, constraints, &answers)
	if err != nil {
		o.metrics.requests.WithLabelValues(o.source.Name(), "error").Inc()
		return nil, err
	}

	survivors := o.filter.Filter(candidates, constraints, &answers)
	scored := o.scorer.ScoreAll(survivors, constraints, &answers)
	ranked := RankMovies(scored, o.resultLimit(answers.MaxResults))

	o.metrics.candidates.WithLabelValues("fetched").Observe(float64(len(candidates)))
	o.metrics.candidates.WithLabelValues("filtered").Observe(float64(len(survivors)))
	o.metrics.candidates.WithLabelValues("ranked").Observe(float64(len(ranked)))
	o.metrics.requests.WithLabelValues(sourceName, "success").Inc()
	o.metrics.latency.Observe(time.Since(startTime).Seconds())

	o.logger.WithFields(logrus.Fields{
		"profiles":   len(profiles),
		"source":     sourceName,
		"candidates": len(candidates),
		"survivors":  len(survivors),
		"returned":   len(ranked),
		"latency":    time.Since(startTime),
	}).Info("Generated recommendations")

	return &RecommendationResult{
		Movies:      ranked,
		Source:      sourceName,
		Fallback:    fallback,
		Candidates:  len(candidates),
		Survivors:   len(survivors),
		GeneratedAt: time.Now(),
	}, nil
}

func (o *RecommendationOrchestrator) fetchCandidates(
	ctx context.Context,
	constraints *HouseholdConstraints,
	answers *models.QuestionnaireAnswers,
) ([]models.Movie, string, bool, error) {
	candidates, err := o.source.FetchCandidates(ctx, constraints, answers)
	if err == nil {
		return candidates, o.source.Name(), false, nil
	}

	// An abandoned request never falls back.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, "", false, ctxErr
	}

	if o.config.CatalogFailurePolicy != config.PolicySample || o.fallback == nil {
		o.logger.WithError(err).Error("Catalog fetch failed")
		return nil, "", false, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	o.logger.WithError(err).Warn("Catalog fetch failed, serving sample catalog")
	o.metrics.fallbacks.Inc()

	candidates, fbErr := o.fallback.FetchCandidates(ctx, constraints, answers)
	if fbErr != nil {
		return nil, "", false, fmt.Errorf("%w: %w", ErrCatalogUnavailable, fbErr)
	}
	return candidates, o.fallback.Name(), true, nil
}

// resultLimit clamps the requested count to [1, max_results_limit]; zero
// falls back to the configured default.
func (o *RecommendationOrchestrator) resultLimit(requested int) int {
	limit := o.config.MaxResultsLimit
	if limit <= 0 {
		limit = 20
	}
	if requested <= 0 {
		requested = o.config.DefaultResults
	}
	return max(1, min(requested, limit))
}
