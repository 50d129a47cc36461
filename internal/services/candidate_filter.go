package services

import (
	"github.com/temcen/popcornpick/pkg/models"
)

// CandidateFilter decides whether a catalog movie is suitable for the
// household.
type CandidateFilter struct {
	rejectUnrated bool
}

// NewCandidateFilter creates a filter. With rejectUnrated set, movies that
// carry no content-rating vector are excluded instead of passed.
func NewCandidateFilter(rejectUnrated bool) *CandidateFilter {
	return &CandidateFilter{rejectUnrated: rejectUnrated}
}

// Passes applies content rating, duration and platform rules in that order.
func (f *CandidateFilter) Passes(movie *models.Movie, constraints *HouseholdConstraints, answers *models.QuestionnaireAnswers) bool {
	if movie.ContentRatings != nil {
		if !movie.ContentRatings.Within(constraints.SensitivityCeiling) {
			return false
		}
	} else if f.rejectUnrated {
		return false
	}

	if answers.HasDurationLimit() && movie.Runtime > answers.Duration {
		return false
	}

	if len(answers.Platforms) > 0 {
		if movie.Providers == nil {
			return false
		}
		if !hasAnyPlatform(movie.Providers, answers.Platforms) {
			return false
		}
	}

	return true
}

// Filter returns the survivors in their original order. The input slice is
// not modified.
func (f *CandidateFilter) Filter(movies []models.Movie, constraints *HouseholdConstraints, answers *models.QuestionnaireAnswers) []models.Movie {
	survivors := make([]models.Movie, 0, len(movies))
	for i := range movies {
		if f.Passes(&movies[i], constraints, answers) {
			survivors = append(survivors, movies[i])
		}
	}
	return survivors
}

func hasAnyPlatform(providers map[string]bool, platforms []string) bool {
	for _, p := range platforms {
		if providers[p] {
			return true
		}
	}
	return false
}
