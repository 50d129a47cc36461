package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/temcen/popcornpick/pkg/models"
)

const baseMatchReason = "This movie matches your family's preferences"

// certificationRatings maps US certifications onto the sensitivity scale.
var certificationRatings = map[string]models.ContentRatings{
	"G":     {Violence: 1, Language: 1, SexualContent: 1, Frightening: 1},
	"PG":    {Violence: 2, Language: 2, SexualContent: 1, Frightening: 2},
	"PG-13": {Violence: 3, Language: 3, SexualContent: 2, Frightening: 3},
	"R":     {Violence: 4, Language: 4, SexualContent: 4, Frightening: 4},
	"NC-17": {Violence: 5, Language: 5, SexualContent: 5, Frightening: 5},
}

// RatingsForCertification returns the content-rating vector for a
// certification. Unknown or empty certifications get the moderate default.
func RatingsForCertification(certification string) models.ContentRatings {
	if r, ok := certificationRatings[strings.ToUpper(strings.TrimSpace(certification))]; ok {
		return r
	}
	return models.Uniform(models.DefaultSensitivity)
}

// MatchScorer computes the match score and reason for a surviving movie.
type MatchScorer struct{}

func NewMatchScorer() *MatchScorer {
	return &MatchScorer{}
}

// Score returns round(100 * overlap / max(1, genres)) clamped to [0,100],
// where overlap counts the movie's genres that the household allows.
func (s *MatchScorer) Score(movie *models.Movie, constraints *HouseholdConstraints) (score int, overlap int) {
	for _, id := range movie.GenreIDs {
		if constraints.Allows(genreKey(id)) {
			overlap++
		}
	}

	total := max(1, len(movie.GenreIDs))
	score = int(math.Round(100 * float64(overlap) / float64(total)))
	return max(0, min(100, score)), overlap
}

// Reason builds the explanation. Clause order is fixed: base, genre overlap,
// mood, rating, platforms.
func (s *MatchScorer) Reason(movie *models.Movie, overlap int, answers *models.QuestionnaireAnswers) string {
	var b strings.Builder
	b.WriteString(baseMatchReason)

	if overlap > 0 {
		fmt.Fprintf(&b, " for %d favorite genres", overlap)
	}
	if answers.Mood != "" {
		fmt.Fprintf(&b, " and fits your %s mood", answers.Mood)
	}
	if answers.MinRating > 0 {
		fmt.Fprintf(&b, " and is rated %.1f/10", movie.VoteAverage)
	}
	if len(answers.Platforms) > 0 && movie.Providers != nil {
		var names []string
		for _, p := range answers.Platforms {
			if !movie.Providers[p] {
				continue
			}
			if name, ok := models.PlatformName(p); ok {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			b.WriteString(". Available on ")
			b.WriteString(strings.Join(names, ", "))
		}
	}

	return b.String()
}

// ScoreAll returns scored copies of movies; the input is left untouched.
func (s *MatchScorer) ScoreAll(movies []models.Movie, constraints *HouseholdConstraints, answers *models.QuestionnaireAnswers) []models.Movie {
	scored := make([]models.Movie, len(movies))
	for i := range movies {
		m := movies[i]
		score, overlap := s.Score(&m, constraints)
		m.MatchScore = score
		m.MatchReason = s.Reason(&m, overlap, answers)
		scored[i] = m
	}
	return scored
}
