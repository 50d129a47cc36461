package services

import (
	"context"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/temcen/popcornpick/internal/catalog"
	"github.com/temcen/popcornpick/internal/config"
	"github.com/temcen/popcornpick/pkg/models"
)

// CatalogClient is the subset of the TMDB client used to fetch candidates.
type CatalogClient interface {
	DiscoverMovies(ctx context.Context, params catalog.DiscoverParams) (*catalog.DiscoverResponse, error)
	GetMovieDetails(ctx context.Context, movieID int) (*catalog.MovieDetails, error)
	GetWatchProviders(ctx context.Context, movieID int) (*catalog.WatchProvidersResponse, error)
}

// CatalogSource fetches candidates from the remote catalog and enriches
// them with runtime, certification and streaming availability.
type CatalogSource struct {
	client               CatalogClient
	region               string
	defaultRegion        string
	certificationCountry string
	concurrency          int
	logger               *logrus.Logger
}

func NewCatalogSource(client CatalogClient, cfg *config.CatalogConfig, logger *logrus.Logger) *CatalogSource {
	concurrency := cfg.EnrichmentConcurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	return &CatalogSource{
		client:               client,
		region:               cfg.Region,
		defaultRegion:        cfg.DefaultRegion,
		certificationCountry: cfg.CertificationCountry,
		concurrency:          concurrency,
		logger:               logger,
	}
}

func (s *CatalogSource) Name() string { return "tmdb" }

// DiscoverParamsFor builds the discover query for a household request.
func DiscoverParamsFor(constraints *HouseholdConstraints, answers *models.QuestionnaireAnswers, certificationCountry string) catalog.DiscoverParams {
	params := catalog.DiscoverParams{
		SortBy:       "popularity.desc",
		IncludeAdult: false,
		MinRating:    answers.MinRating,
		GenreIDs:     constraints.GenreList(),
	}
	if answers.Certification != "" {
		params.Certification = answers.Certification
		params.CertificationCountry = certificationCountry
	}
	if answers.HasDurationLimit() {
		params.MaxRuntime = answers.Duration
	}
	return params
}

type enrichment struct {
	details   *catalog.MovieDetails
	platforms map[string]bool
}

func (s *CatalogSource) FetchCandidates(ctx context.Context, constraints *HouseholdConstraints, answers *models.QuestionnaireAnswers) ([]models.Movie, error) {
	params := DiscoverParamsFor(constraints, answers, s.certificationCountry)

	resp, err := s.client.DiscoverMovies(ctx, params)
	if err != nil {
		return nil, err
	}

	movies := make([]models.Movie, 0, len(resp.Results))
	for _, raw := range resp.Results {
		movies = append(movies, fromRaw(raw))
	}

	enriched, err := s.enrich(ctx, movies, len(answers.Platforms) > 0)
	if err != nil {
		return nil, err
	}

	for i := range movies {
		m := &movies[i]
		e := enriched[m.ID]

		certification := ""
		if e.details != nil {
			if m.Runtime == 0 {
				m.Runtime = e.details.Runtime
			}
			certification = e.details.Certification(s.region, s.defaultRegion)
		}
		if certification == "" {
			certification = answers.Certification
		}
		m.Certification = certification
		r := RatingsForCertification(certification)
		m.ContentRatings = &r

		if e.platforms != nil {
			m.Providers = e.platforms
		}
	}

	s.logger.WithFields(logrus.Fields{
		"candidates": len(movies),
		"genres":     params.GenreIDs,
	}).Debug("Fetched catalog candidates")

	return movies, nil
}

// enrich fetches details (and providers when wanted) with bounded
// parallelism. Results are keyed by movie id. A failed lookup for one movie
// is logged and skipped; cancellation aborts everything.
func (s *CatalogSource) enrich(ctx context.Context, movies []models.Movie, wantProviders bool) (map[int]enrichment, error) {
	var (
		mu      sync.Mutex
		results = make(map[int]enrichment, len(movies))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, m := range movies {
		movieID := m.ID
		g.Go(func() error {
			var e enrichment

			details, err := s.client.GetMovieDetails(gctx, movieID)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.WithError(err).WithField("movie_id", movieID).Warn("Failed to fetch movie details")
			} else {
				e.details = details
			}

			if wantProviders {
				providers, err := s.client.GetWatchProviders(gctx, movieID)
				if err != nil {
					if ctxErr := ctx.Err(); ctxErr != nil {
						return ctxErr
					}
					s.logger.WithError(err).WithField("movie_id", movieID).Warn("Failed to fetch watch providers")
				} else {
					e.platforms = providers.Platforms(s.region, s.defaultRegion)
				}
			}

			mu.Lock()
			results[movieID] = e
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func fromRaw(raw catalog.RawMovie) models.Movie {
	return models.Movie{
		ID:           raw.ID,
		Title:        raw.Title,
		Overview:     raw.Overview,
		PosterPath:   raw.PosterPath,
		BackdropPath: raw.BackdropPath,
		ReleaseDate:  raw.ReleaseDate,
		VoteAverage:  raw.VoteAverage,
		GenreIDs:     raw.GenreIDs,
		Runtime:      raw.Runtime,
	}
}

// genreKey converts a catalog genre id to the profile genre key.
func genreKey(id int) string {
	return strconv.Itoa(id)
}
