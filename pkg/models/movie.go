package models

import (
	"time"

	"github.com/google/uuid"
)

// NoDurationLimit is the questionnaire duration meaning "any length".
const NoDurationLimit = 999

// ContentRatings shares the sensitivity scale: 1 is the mildest content,
// 5 the most intense.
type ContentRatings = SensitivityLevels

type Movie struct {
	ID             int             `json:"id"`
	Title          string          `json:"title"`
	Overview       string          `json:"overview"`
	PosterPath     string          `json:"poster_path"`
	BackdropPath   string          `json:"backdrop_path"`
	ReleaseDate    string          `json:"release_date"`
	VoteAverage    float64         `json:"vote_average"`
	GenreIDs       []int           `json:"genre_ids"`
	Runtime        int             `json:"runtime"`
	Certification  string          `json:"certification,omitempty"`
	Providers      map[string]bool `json:"providers,omitempty"`
	ContentRatings *ContentRatings `json:"content_ratings,omitempty"`

	// Derived per request, never persisted with the catalog record.
	MatchScore  int    `json:"match_score,omitempty"`
	MatchReason string `json:"match_reason,omitempty"`
}

// Snapshot returns a copy without the per-request match fields.
func (m Movie) Snapshot() Movie {
	m.MatchScore = 0
	m.MatchReason = ""
	if m.GenreIDs != nil {
		m.GenreIDs = append([]int(nil), m.GenreIDs...)
	}
	if m.Providers != nil {
		providers := make(map[string]bool, len(m.Providers))
		for k, v := range m.Providers {
			providers[k] = v
		}
		m.Providers = providers
	}
	if m.ContentRatings != nil {
		ratings := *m.ContentRatings
		m.ContentRatings = &ratings
	}
	return m
}

// QuestionnaireAnswers captures the "what are we watching tonight" form.
type QuestionnaireAnswers struct {
	Mood           string   `json:"mood"`
	Duration       int      `json:"duration" validate:"omitempty,min=1"`
	Platforms      []string `json:"platforms"`
	IncludeWatched bool     `json:"include_watched"` // accepted, not used for filtering
	MaxResults     int      `json:"max_results" validate:"omitempty,min=1"`
	MinRating      float64  `json:"min_rating" validate:"min=0,max=10"`
	Certification  string   `json:"certification" validate:"omitempty,oneof=G PG PG-13 R NC-17"`
}

// HasDurationLimit reports whether the duration answer restricts runtime.
func (a QuestionnaireAnswers) HasDurationLimit() bool {
	return a.Duration < NoDurationLimit
}

type WatchedMovie struct {
	Movie
	RecordID    uuid.UUID   `json:"record_id"`
	WatchedDate time.Time   `json:"watched_date"`
	Rating      int         `json:"rating"`
	WatchedWith []uuid.UUID `json:"watched_with"`
}

type WatchRequest struct {
	Movie       Movie       `json:"movie"`
	Rating      *int        `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	WatchedWith []uuid.UUID `json:"watched_with,omitempty"`
}

type HistorySummary struct {
	TotalWatched  int            `json:"total_watched"`
	ByYear        map[string]int `json:"by_year"`
	RatedCount    int            `json:"rated_count"`
	AverageRating float64        `json:"average_rating"`
	RatingStdDev  float64        `json:"rating_std_dev"`
}
