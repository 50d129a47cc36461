package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/popcornpick/internal/catalog"
	"github.com/temcen/popcornpick/internal/config"
	"github.com/temcen/popcornpick/pkg/models"
)

// fakeCatalog answers from in-memory tables; delays make later ids finish
// first so joins by position would be caught.
type fakeCatalog struct {
	mu            sync.Mutex
	discover      []catalog.RawMovie
	discoverErr   error
	details       map[int]*catalog.MovieDetails
	providers     map[int]*catalog.WatchProvidersResponse
	lastParams    catalog.DiscoverParams
	providerCalls int
}

func (f *fakeCatalog) DiscoverMovies(ctx context.Context, params catalog.DiscoverParams) (*catalog.DiscoverResponse, error) {
	f.mu.Lock()
	f.lastParams = params
	f.mu.Unlock()
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	return &catalog.DiscoverResponse{Results: f.discover}, nil
}

func (f *fakeCatalog) GetMovieDetails(ctx context.Context, movieID int) (*catalog.MovieDetails, error) {
	select {
	case <-time.After(time.Duration(10-movieID%10) * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	d, ok := f.details[movieID]
	if !ok {
		return nil, &catalog.StatusError{StatusCode: 404}
	}
	return d, nil
}

func (f *fakeCatalog) GetWatchProviders(ctx context.Context, movieID int) (*catalog.WatchProvidersResponse, error) {
	f.mu.Lock()
	f.providerCalls++
	f.mu.Unlock()
	p, ok := f.providers[movieID]
	if !ok {
		return nil, errors.New("providers unavailable")
	}
	return p, nil
}

func usRelease(cert string) catalog.ReleaseDates {
	return catalog.ReleaseDates{Results: []catalog.CountryReleaseDates{
		{Country: "US", ReleaseDates: []catalog.ReleaseDate{{Certification: cert, Type: 3}}},
	}}
}

func newTestCatalogSource(client CatalogClient) *CatalogSource {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewCatalogSource(client, &config.CatalogConfig{
		Region:                "US",
		DefaultRegion:         "US",
		CertificationCountry:  "US",
		EnrichmentConcurrency: 3,
	}, logger)
}

func TestDiscoverParamsFor(t *testing.T) {
	constraints := allowed("35", "16")

	params := DiscoverParamsFor(constraints, &models.QuestionnaireAnswers{
		Duration:      120,
		MinRating:     7.5,
		Certification: "PG",
	}, "US")
	assert.Equal(t, []string{"16", "35"}, params.GenreIDs)
	assert.Equal(t, 120, params.MaxRuntime)
	assert.Equal(t, 7.5, params.MinRating)
	assert.Equal(t, "PG", params.Certification)
	assert.Equal(t, "US", params.CertificationCountry)
	assert.False(t, params.IncludeAdult)

	params = DiscoverParamsFor(allowed(), &models.QuestionnaireAnswers{Duration: models.NoDurationLimit}, "US")
	assert.Empty(t, params.GenreIDs)
	assert.Zero(t, params.MaxRuntime)
	assert.Empty(t, params.CertificationCountry)
}

func TestCatalogSource_EnrichesByMovieID(t *testing.T) {
	client := &fakeCatalog{
		discover: []catalog.RawMovie{
			{ID: 1, Title: "One", GenreIDs: []int{16}},
			{ID: 2, Title: "Two", GenreIDs: []int{35}},
			{ID: 3, Title: "Three", GenreIDs: []int{16, 35}, Runtime: 77},
		},
		details: map[int]*catalog.MovieDetails{
			1: {ID: 1, Runtime: 81, ReleaseDates: usRelease("G")},
			2: {ID: 2, Runtime: 125, ReleaseDates: usRelease("R")},
			3: {ID: 3, Runtime: 90},
		},
		providers: map[int]*catalog.WatchProvidersResponse{
			1: {Results: map[string]catalog.RegionProviders{"US": {Flatrate: []catalog.Provider{{ProviderID: 337}}}}},
			2: {Results: map[string]catalog.RegionProviders{"US": {Flatrate: []catalog.Provider{{ProviderID: 8}}}}},
			3: {Results: map[string]catalog.RegionProviders{}},
		},
	}

	source := newTestCatalogSource(client)
	movies, err := source.FetchCandidates(context.Background(), allowed("16"), &models.QuestionnaireAnswers{
		Duration:  models.NoDurationLimit,
		Platforms: []string{"netflix"},
	})
	require.NoError(t, err)
	require.Len(t, movies, 3)

	assert.Equal(t, "One", movies[0].Title)
	assert.Equal(t, 81, movies[0].Runtime)
	assert.Equal(t, "G", movies[0].Certification)
	assert.Equal(t, models.Uniform(1), *movies[0].ContentRatings)
	assert.Equal(t, map[string]bool{"disney": true}, movies[0].Providers)

	assert.Equal(t, 125, movies[1].Runtime)
	assert.Equal(t, models.Uniform(4), *movies[1].ContentRatings)
	assert.Equal(t, map[string]bool{"netflix": true}, movies[1].Providers)

	assert.Equal(t, 77, movies[2].Runtime, "discover runtime is kept")
	assert.Equal(t, models.Uniform(3), *movies[2].ContentRatings)
	assert.Empty(t, movies[2].Providers)
}

func TestCatalogSource_PerMovieFailureKeepsRawMovie(t *testing.T) {
	client := &fakeCatalog{
		discover: []catalog.RawMovie{{ID: 5, Title: "Missing details", GenreIDs: []int{16}}},
		details:  map[int]*catalog.MovieDetails{},
	}

	source := newTestCatalogSource(client)
	movies, err := source.FetchCandidates(context.Background(), allowed("16"), &models.QuestionnaireAnswers{
		Duration:      models.NoDurationLimit,
		Certification: "PG",
	})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Missing details", movies[0].Title)
	assert.Equal(t, "PG", movies[0].Certification, "falls back to the requested certification")
	assert.Equal(t, RatingsForCertification("PG"), *movies[0].ContentRatings)
	assert.Nil(t, movies[0].Providers)
	assert.Zero(t, client.providerCalls, "providers are only fetched when platforms are requested")
}

func TestCatalogSource_DiscoverError(t *testing.T) {
	client := &fakeCatalog{discoverErr: errors.New("boom")}
	source := newTestCatalogSource(client)

	_, err := source.FetchCandidates(context.Background(), allowed("16"), &models.QuestionnaireAnswers{})
	assert.EqualError(t, err, "boom")
}

func TestCatalogSource_EmptyResults(t *testing.T) {
	source := newTestCatalogSource(&fakeCatalog{})

	movies, err := source.FetchCandidates(context.Background(), allowed("16"), &models.QuestionnaireAnswers{})
	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func TestCatalogSource_CancellationAborts(t *testing.T) {
	client := &fakeCatalog{
		discover: []catalog.RawMovie{{ID: 1}, {ID: 2}},
		details:  map[int]*catalog.MovieDetails{1: {ID: 1}, 2: {ID: 2}},
	}
	source := newTestCatalogSource(client)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	movies, err := source.FetchCandidates(ctx, allowed("16"), &models.QuestionnaireAnswers{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, movies)
}
