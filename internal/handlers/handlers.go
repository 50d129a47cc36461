package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/temcen/popcornpick/internal/services"
)

type Handlers struct {
	Health         *HealthHandler
	Profiles       *ProfileHandler
	Selection      *SelectionHandler
	Recommendation *RecommendationHandler
	History        *HistoryHandler
}

func New(logger *logrus.Logger, services *services.Services) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(logger, services.Health),
		Profiles:       NewProfileHandler(services.Profiles, logger),
		Selection:      NewSelectionHandler(services.Profiles, logger),
		Recommendation: NewRecommendationHandler(services.RecommendationOrchestrator, services.Profiles, logger),
		History:        NewHistoryHandler(services.History, logger),
	}
}
