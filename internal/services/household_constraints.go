package services

import (
	"sort"

	"github.com/temcen/popcornpick/pkg/models"
)

// HouseholdConstraints is the single filter set derived from every selected
// profile.
type HouseholdConstraints struct {
	AllowedGenres      map[string]struct{}
	SensitivityCeiling models.SensitivityLevels
	// MinAge is informational and does not gate content.
	MinAge int
}

// AggregateConstraints merges profiles into household constraints. Favorite
// genres are unioned, any disliked genre vetoes, and each sensitivity
// dimension takes the strictest (lowest) level.
func AggregateConstraints(profiles []models.Profile) (*HouseholdConstraints, error) {
	if len(profiles) == 0 {
		return nil, ErrEmptySelection
	}

	favorites := make(map[string]struct{})
	disliked := make(map[string]struct{})
	ceiling := models.Uniform(models.MaxSensitivity)
	minAge := profiles[0].Age

	for _, p := range profiles {
		for _, g := range p.FavoriteGenres {
			favorites[g] = struct{}{}
		}
		for _, g := range p.DislikedGenres {
			disliked[g] = struct{}{}
		}

		ceiling.Violence = min(ceiling.Violence, p.SensitivityLevels.Violence)
		ceiling.Language = min(ceiling.Language, p.SensitivityLevels.Language)
		ceiling.SexualContent = min(ceiling.SexualContent, p.SensitivityLevels.SexualContent)
		ceiling.Frightening = min(ceiling.Frightening, p.SensitivityLevels.Frightening)

		minAge = min(minAge, p.Age)
	}

	allowed := make(map[string]struct{}, len(favorites))
	for g := range favorites {
		if _, vetoed := disliked[g]; !vetoed {
			allowed[g] = struct{}{}
		}
	}

	return &HouseholdConstraints{
		AllowedGenres:      allowed,
		SensitivityCeiling: ceiling,
		MinAge:             minAge,
	}, nil
}

// Allows reports whether genreID is in the allowed set.
func (c *HouseholdConstraints) Allows(genreID string) bool {
	_, ok := c.AllowedGenres[genreID]
	return ok
}

// GenreList returns the allowed genres sorted, for stable catalog queries.
func (c *HouseholdConstraints) GenreList() []string {
	genres := make([]string, 0, len(c.AllowedGenres))
	for g := range c.AllowedGenres {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}
