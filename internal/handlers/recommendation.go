package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/popcornpick/internal/services"
	"github.com/temcen/popcornpick/pkg/models"
)

type RecommendationHandler struct {
	orchestrator services.RecommendationOrchestratorInterface
	profiles     services.ProfileServiceInterface
	logger       *logrus.Logger
}

func NewRecommendationHandler(
	orchestrator services.RecommendationOrchestratorInterface,
	profiles services.ProfileServiceInterface,
	logger *logrus.Logger,
) *RecommendationHandler {
	return &RecommendationHandler{
		orchestrator: orchestrator,
		profiles:     profiles,
		logger:       logger,
	}
}

// Recommend runs the questionnaire against the requested profiles, or the
// current selection when none are named.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req models.RecommendationRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &req) {
			return
		}
	}
	if req.Duration == 0 {
		req.Duration = models.NoDurationLimit
	}

	ctx := c.Request.Context()

	var (
		profiles []models.Profile
		err      error
	)
	if len(req.ProfileIDs) > 0 {
		profiles, err = h.profiles.ProfilesByID(ctx, req.ProfileIDs)
	} else {
		profiles, err = h.profiles.SelectedProfiles(ctx)
	}
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to resolve profiles")
		return
	}

	result, err := h.orchestrator.GenerateRecommendations(ctx, req.QuestionnaireAnswers, profiles)
	if err != nil {
		respondServiceError(c, h.logger, err, "Failed to generate recommendations")
		return
	}

	profileIDs := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		profileIDs = append(profileIDs, p.ID)
	}

	c.JSON(http.StatusOK, models.RecommendationResponse{
		ProfileIDs:      profileIDs,
		Recommendations: result.Movies,
		Source:          result.Source,
		Fallback:        result.Fallback,
		GeneratedAt:     result.GeneratedAt,
	})
}
