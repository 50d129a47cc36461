package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/temcen/popcornpick/pkg/models"
)

// RecommendationOrchestratorInterface defines the interface for recommendation orchestration
type RecommendationOrchestratorInterface interface {
	GenerateRecommendations(ctx context.Context, answers models.QuestionnaireAnswers, profiles []models.Profile) (*RecommendationResult, error)
}

// ProfileServiceInterface defines profile and selection management
type ProfileServiceInterface interface {
	List(ctx context.Context) ([]models.Profile, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, req *models.ProfileRequest) (*models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, req *models.ProfileRequest) (*models.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetGenrePreference(ctx context.Context, id uuid.UUID, genreID string, pref models.GenrePreference) (*models.Profile, error)

	Selection(ctx context.Context) ([]uuid.UUID, error)
	ReplaceSelection(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	ToggleSelection(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	ClearSelection(ctx context.Context) error
	SelectedProfiles(ctx context.Context) ([]models.Profile, error)
	ProfilesByID(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error)
}

// HistoryServiceInterface defines watch history operations
type HistoryServiceInterface interface {
	MarkWatched(ctx context.Context, req *models.WatchRequest) (*models.WatchedMovie, error)
	List(ctx context.Context, year int) ([]models.WatchedMovie, error)
	Years(ctx context.Context) ([]int, error)
	Summary(ctx context.Context) (*models.HistorySummary, error)
}

// HealthServiceInterface reports dependency health
type HealthServiceInterface interface {
	CheckHealth(ctx context.Context) *HealthStatus
}

var (
	_ RecommendationOrchestratorInterface = (*RecommendationOrchestrator)(nil)
	_ ProfileServiceInterface             = (*ProfileService)(nil)
	_ HistoryServiceInterface             = (*HistoryService)(nil)
	_ HealthServiceInterface              = (*HealthService)(nil)
)
