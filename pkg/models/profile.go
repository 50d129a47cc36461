package models

import "github.com/google/uuid"

const (
	MinSensitivity = 1
	MaxSensitivity = 5

	// DefaultSensitivity is the moderate level used for new profiles and
	// for movies whose certification is unknown.
	DefaultSensitivity = 3
)

// SensitivityLevels holds one level per content dimension, 1 (most
// sensitive) to 5 (least sensitive).
type SensitivityLevels struct {
	Violence      int `json:"violence" validate:"min=1,max=5"`
	Language      int `json:"language" validate:"min=1,max=5"`
	SexualContent int `json:"sexual_content" validate:"min=1,max=5"`
	Frightening   int `json:"frightening" validate:"min=1,max=5"`
}

// Uniform returns a vector with every dimension set to level.
func Uniform(level int) SensitivityLevels {
	return SensitivityLevels{
		Violence:      level,
		Language:      level,
		SexualContent: level,
		Frightening:   level,
	}
}

// Within reports whether every dimension of s is at or below the
// matching dimension of ceiling.
func (s SensitivityLevels) Within(ceiling SensitivityLevels) bool {
	return s.Violence <= ceiling.Violence &&
		s.Language <= ceiling.Language &&
		s.SexualContent <= ceiling.SexualContent &&
		s.Frightening <= ceiling.Frightening
}

type Profile struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name" validate:"required,min=1,max=100"`
	Age               int               `json:"age" validate:"min=0,max=150"`
	Language          string            `json:"language" validate:"required"`
	FavoriteGenres    []string          `json:"favorite_genres"`
	DislikedGenres    []string          `json:"disliked_genres"`
	LikedMovies       []string          `json:"liked_movies"`    // reserved, unused by scoring
	DislikedMovies    []string          `json:"disliked_movies"` // reserved, unused by scoring
	SensitivityLevels SensitivityLevels `json:"sensitivity_levels"`
	Avatar            string            `json:"avatar,omitempty"`
}

// GenrePreference is the per-genre state a profile can hold.
type GenrePreference string

const (
	GenreFavorite GenrePreference = "favorite"
	GenreDisliked GenrePreference = "disliked"
	GenreNeutral  GenrePreference = "none"
)

// SetGenrePreference moves genreID into the requested set. Favorite and
// disliked are mutually exclusive: marking one removes it from the other.
func (p *Profile) SetGenrePreference(genreID string, pref GenrePreference) {
	p.FavoriteGenres = removeString(p.FavoriteGenres, genreID)
	p.DislikedGenres = removeString(p.DislikedGenres, genreID)

	switch pref {
	case GenreFavorite:
		p.FavoriteGenres = append(p.FavoriteGenres, genreID)
	case GenreDisliked:
		p.DislikedGenres = append(p.DislikedGenres, genreID)
	}
}

// ConflictingGenres returns the genres present in both the favorite and
// disliked sets.
func (p *Profile) ConflictingGenres() []string {
	disliked := make(map[string]struct{}, len(p.DislikedGenres))
	for _, g := range p.DislikedGenres {
		disliked[g] = struct{}{}
	}

	var conflicts []string
	for _, g := range p.FavoriteGenres {
		if _, ok := disliked[g]; ok {
			conflicts = append(conflicts, g)
		}
	}
	return conflicts
}

// ProfileRequest is the create/update payload.
type ProfileRequest struct {
	Name              string             `json:"name" validate:"required,min=1,max=100"`
	Age               *int               `json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Language          string             `json:"language,omitempty"`
	FavoriteGenres    []string           `json:"favorite_genres,omitempty"`
	DislikedGenres    []string           `json:"disliked_genres,omitempty"`
	LikedMovies       []string           `json:"liked_movies,omitempty"`
	DislikedMovies    []string           `json:"disliked_movies,omitempty"`
	SensitivityLevels *SensitivityLevels `json:"sensitivity_levels,omitempty"`
	Avatar            string             `json:"avatar,omitempty"`
}

type GenrePreferenceRequest struct {
	Preference GenrePreference `json:"preference" validate:"required,oneof=favorite disliked none"`
}

type SelectionRequest struct {
	ProfileIDs []uuid.UUID `json:"profile_ids"`
}

func removeString(values []string, target string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != target {
			out = append(out, v)
		}
	}
	return out
}
