package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/popcornpick/pkg/models"
)

func testProfile(age int, favorites, disliked []string, levels models.SensitivityLevels) models.Profile {
	return models.Profile{
		Name:              "viewer",
		Age:               age,
		Language:          "en",
		FavoriteGenres:    favorites,
		DislikedGenres:    disliked,
		SensitivityLevels: levels,
	}
}

func TestAggregateConstraints_EmptySelection(t *testing.T) {
	constraints, err := AggregateConstraints(nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Nil(t, constraints)

	_, err = AggregateConstraints([]models.Profile{})
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestAggregateConstraints_SingleProfile(t *testing.T) {
	levels := models.SensitivityLevels{Violence: 2, Language: 2, SexualContent: 1, Frightening: 2}
	constraints, err := AggregateConstraints([]models.Profile{
		testProfile(10, []string{"16"}, nil, levels),
	})
	require.NoError(t, err)

	assert.Equal(t, levels, constraints.SensitivityCeiling)
	assert.Equal(t, 10, constraints.MinAge)
	assert.Equal(t, []string{"16"}, constraints.GenreList())
}

func TestAggregateConstraints_DislikeVetoesFavorite(t *testing.T) {
	constraints, err := AggregateConstraints([]models.Profile{
		testProfile(40, []string{"35"}, []string{"27"}, models.Uniform(4)),
		testProfile(16, []string{"27", "878"}, nil, models.Uniform(4)),
	})
	require.NoError(t, err)

	assert.False(t, constraints.Allows("27"))
	assert.True(t, constraints.Allows("35"))
	assert.True(t, constraints.Allows("878"))
	assert.Equal(t, []string{"35", "878"}, constraints.GenreList())
}

func TestAggregateConstraints_CeilingIsPerDimensionMinimum(t *testing.T) {
	tests := []struct {
		name     string
		levels   []models.SensitivityLevels
		expected models.SensitivityLevels
	}{
		{
			name:     "all permissive",
			levels:   []models.SensitivityLevels{models.Uniform(5), models.Uniform(5)},
			expected: models.Uniform(5),
		},
		{
			name: "different members set different dimensions",
			levels: []models.SensitivityLevels{
				{Violence: 1, Language: 4, SexualContent: 5, Frightening: 3},
				{Violence: 3, Language: 2, SexualContent: 5, Frightening: 4},
				{Violence: 5, Language: 5, SexualContent: 2, Frightening: 5},
			},
			expected: models.SensitivityLevels{Violence: 1, Language: 2, SexualContent: 2, Frightening: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := make([]models.Profile, 0, len(tt.levels))
			for _, l := range tt.levels {
				profiles = append(profiles, testProfile(30, nil, nil, l))
			}

			constraints, err := AggregateConstraints(profiles)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, constraints.SensitivityCeiling)
		})
	}
}

func TestAggregateConstraints_MinAge(t *testing.T) {
	constraints, err := AggregateConstraints([]models.Profile{
		testProfile(42, nil, nil, models.Uniform(3)),
		testProfile(7, nil, nil, models.Uniform(3)),
		testProfile(12, nil, nil, models.Uniform(3)),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, constraints.MinAge)
	assert.Empty(t, constraints.AllowedGenres)
}

func TestAggregateConstraints_DoesNotMutateProfiles(t *testing.T) {
	profiles := []models.Profile{
		testProfile(10, []string{"16", "27"}, nil, models.Uniform(2)),
		testProfile(35, nil, []string{"27"}, models.Uniform(4)),
	}

	_, err := AggregateConstraints(profiles)
	require.NoError(t, err)

	assert.Equal(t, []string{"16", "27"}, profiles[0].FavoriteGenres)
	assert.Equal(t, []string{"27"}, profiles[1].DislikedGenres)
	assert.Equal(t, models.Uniform(4), profiles[1].SensitivityLevels)
}
