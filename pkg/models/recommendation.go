package models

import (
	"time"

	"github.com/google/uuid"
)

type RecommendationRequest struct {
	QuestionnaireAnswers
	// Empty means "use the current selection".
	ProfileIDs []uuid.UUID `json:"profile_ids,omitempty"`
}

type RecommendationResponse struct {
	ProfileIDs      []uuid.UUID `json:"profile_ids"`
	Recommendations []Movie     `json:"recommendations"`
	Source          string      `json:"source"`
	Fallback        bool        `json:"fallback"`
	GeneratedAt     time.Time   `json:"generated_at"`
}
