package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/popcornpick/internal/catalog"
	"github.com/temcen/popcornpick/internal/config"
	"github.com/temcen/popcornpick/internal/database"
	"github.com/temcen/popcornpick/internal/messaging"
	"github.com/temcen/popcornpick/internal/store"
)

type Services struct {
	Health                     *HealthService
	RateLimit                  *RateLimitService
	Publisher                  messaging.EventPublisher
	Catalog                    *catalog.Client
	Profiles                   *ProfileService
	History                    *HistoryService
	RecommendationOrchestrator *RecommendationOrchestrator
}

func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	kv, err := newKV(ctx, cfg, db)
	if err != nil {
		return nil, err
	}
	st := store.New(kv)

	var hot, warm *redis.Client
	if db.Redis != nil {
		hot, warm = db.Redis.Hot, db.Redis.Warm
	}

	rateLimitService := NewRateLimitService(&cfg.RateLimit, logger, hot)
	publisher := messaging.NewPublisher(&cfg.Kafka, logger)

	// Initialize recommendation services
	sample := NewSampleSource()
	var (
		source        CandidateSource = sample
		catalogClient *catalog.Client
		breaker       CatalogBreaker
	)
	if cfg.Catalog.Source != config.SourceSample {
		catalogClient = catalog.NewClient(&cfg.Catalog, warm, logger)
		source = NewCatalogSource(catalogClient, &cfg.Catalog, logger)
		breaker = catalogClient
	}

	orchestrator := NewRecommendationOrchestrator(
		source, sample, &cfg.Recommendation, NewRecommendationMetrics(logger), logger,
	)

	logger.WithFields(logrus.Fields{
		"storage":        cfg.Storage.Backend,
		"catalog_source": source.Name(),
		"failure_policy": cfg.Recommendation.CatalogFailurePolicy,
	}).Info("Services initialized")

	return &Services{
		Health:                     NewHealthService(logger, db, breaker),
		RateLimit:                  rateLimitService,
		Publisher:                  publisher,
		Catalog:                    catalogClient,
		Profiles:                   NewProfileService(st, logger),
		History:                    NewHistoryService(st, publisher, logger),
		RecommendationOrchestrator: orchestrator,
	}, nil
}

func newKV(ctx context.Context, cfg *config.Config, db *database.Database) (store.KV, error) {
	if cfg.Storage.Backend != config.BackendPostgres {
		return store.NewMemoryKV(), nil
	}
	if db.PG == nil {
		return nil, fmt.Errorf("postgres storage selected but no connection is configured")
	}

	kv := store.NewPostgresKV(db.PG)
	if err := kv.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare kv store: %w", err)
	}
	return kv, nil
}

// Close releases resources owned by the services.
func (s *Services) Close() error {
	return s.Publisher.Close()
}
