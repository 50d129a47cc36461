package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/temcen/popcornpick/internal/messaging"
	"github.com/temcen/popcornpick/internal/store"
	"github.com/temcen/popcornpick/pkg/models"
)

// HistoryService records watched movies.
type HistoryService struct {
	store     *store.Store
	publisher messaging.EventPublisher
	logger    *logrus.Logger
	now       func() time.Time
}

func NewHistoryService(s *store.Store, publisher messaging.EventPublisher, logger *logrus.Logger) *HistoryService {
	return &HistoryService{
		store:     s,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// MarkWatched prepends an immutable record to the history. Without a
// rating the record stores 0; without viewers it uses the current
// selection. The event is published after the record is stored and a
// publish failure does not fail the call.
func (s *HistoryService) MarkWatched(ctx context.Context, req *models.WatchRequest) (*models.WatchedMovie, error) {
	if req.Movie.ID <= 0 {
		return nil, fmt.Errorf("%w: movie id is required", ErrInvalidMovie)
	}

	rating := 0
	if req.Rating != nil {
		rating = *req.Rating
		if rating < 0 || rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidMovie)
		}
	}

	record := models.WatchedMovie{
		Movie:       req.Movie.Snapshot(),
		RecordID:    uuid.New(),
		WatchedDate: s.now().UTC(),
		Rating:      rating,
	}

	err := s.store.Update(ctx, func(state *store.State) error {
		watchedWith := req.WatchedWith
		if len(watchedWith) == 0 {
			watchedWith = state.SelectedProfiles
		}
		for _, id := range watchedWith {
			if state.FindProfile(id) < 0 {
				return fmt.Errorf("%w: %s", store.ErrProfileNotFound, id)
			}
		}
		record.WatchedWith = append([]uuid.UUID{}, watchedWith...)

		state.WatchedMovies = append([]models.WatchedMovie{record}, state.WatchedMovies...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"record_id": record.RecordID,
		"movie_id":  record.ID,
		"viewers":   len(record.WatchedWith),
	}).Info("Movie marked as watched")

	if err := s.publisher.PublishMovieWatched(ctx, messaging.NewMovieWatchedEvent(record)); err != nil {
		s.logger.WithError(err).WithField("record_id", record.RecordID).Warn("Failed to publish watch event")
	}

	return &record, nil
}

// List returns the history, newest first. year 0 returns everything.
func (s *HistoryService) List(ctx context.Context, year int) ([]models.WatchedMovie, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if year == 0 {
		return state.WatchedMovies, nil
	}

	filtered := make([]models.WatchedMovie, 0, len(state.WatchedMovies))
	for _, w := range state.WatchedMovies {
		if w.WatchedDate.Year() == year {
			filtered = append(filtered, w)
		}
	}
	return filtered, nil
}

// Years returns the distinct watch years, most recent first.
func (s *HistoryService) Years(ctx context.Context) ([]int, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	years := []int{}
	for _, w := range state.WatchedMovies {
		y := w.WatchedDate.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// Summary aggregates the history. Unrated records (rating 0) are left out
// of the rating statistics.
func (s *HistoryService) Summary(ctx context.Context) (*models.HistorySummary, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.HistorySummary{
		TotalWatched: len(state.WatchedMovies),
		ByYear:       make(map[string]int),
	}

	var ratings []float64
	for _, w := range state.WatchedMovies {
		summary.ByYear[strconv.Itoa(w.WatchedDate.Year())]++
		if w.Rating > 0 {
			ratings = append(ratings, float64(w.Rating))
		}
	}

	summary.RatedCount = len(ratings)
	switch len(ratings) {
	case 0:
	case 1:
		summary.AverageRating = ratings[0]
	default:
		summary.AverageRating, summary.RatingStdDev = stat.MeanStdDev(ratings, nil)
	}

	return summary, nil
}
