package services

import (
	"sort"

	"github.com/temcen/popcornpick/pkg/models"
)

// RankMovies orders movies by match score, highest first, keeping catalog
// order among equal scores, and keeps at most maxResults. The result is a
// new slice.
func RankMovies(movies []models.Movie, maxResults int) []models.Movie {
	ranked := make([]models.Movie, len(movies))
	copy(ranked, movies)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})

	if maxResults < 0 {
		maxResults = 0
	}
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}
