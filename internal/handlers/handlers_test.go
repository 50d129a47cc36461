package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/temcen/popcornpick/internal/messaging"
	"github.com/temcen/popcornpick/internal/services"
	"github.com/temcen/popcornpick/internal/store"
	"github.com/temcen/popcornpick/pkg/models"
)

type MockRecommendationOrchestrator struct {
	mock.Mock
}

func (m *MockRecommendationOrchestrator) GenerateRecommendations(ctx context.Context, answers models.QuestionnaireAnswers, profiles []models.Profile) (*services.RecommendationResult, error) {
	args := m.Called(ctx, answers, profiles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RecommendationResult), args.Error(1)
}

type testEnv struct {
	router       *gin.Engine
	profiles     *services.ProfileService
	orchestrator *MockRecommendationOrchestrator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	st := store.New(store.NewMemoryKV())
	profiles := services.NewProfileService(st, logger)
	history := services.NewHistoryService(st, messaging.NoopPublisher{}, logger)
	orchestrator := &MockRecommendationOrchestrator{}

	profileHandler := NewProfileHandler(profiles, logger)
	selectionHandler := NewSelectionHandler(profiles, logger)
	recommendationHandler := NewRecommendationHandler(orchestrator, profiles, logger)
	historyHandler := NewHistoryHandler(history, logger)

	router := gin.New()
	api := router.Group("/api/v1")
	api.GET("/profiles", profileHandler.List)
	api.POST("/profiles", profileHandler.Create)
	api.GET("/profiles/:profileId", profileHandler.Get)
	api.PUT("/profiles/:profileId", profileHandler.Update)
	api.DELETE("/profiles/:profileId", profileHandler.Delete)
	api.PUT("/profiles/:profileId/genres/:genreId", profileHandler.SetGenrePreference)
	api.GET("/selection", selectionHandler.Get)
	api.PUT("/selection", selectionHandler.Replace)
	api.DELETE("/selection", selectionHandler.Clear)
	api.POST("/selection/:profileId/toggle", selectionHandler.Toggle)
	api.POST("/recommendations", recommendationHandler.Recommend)
	api.GET("/history", historyHandler.List)
	api.POST("/history", historyHandler.MarkWatched)
	api.GET("/history/years", historyHandler.Years)
	api.GET("/history/summary", historyHandler.Summary)
	api.GET("/options", Options)

	return &testEnv{router: router, profiles: profiles, orchestrator: orchestrator}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createProfile(t *testing.T, body string) models.Profile {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/profiles", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var profile models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	return profile
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestProfileHandler_CRUD(t *testing.T) {
	env := newTestEnv(t)

	profile := env.createProfile(t, `{"name":"Mia","age":7,"favorite_genres":["16"]}`)
	assert.Equal(t, "Mia", profile.Name)
	assert.Equal(t, "en", profile.Language)
	assert.Equal(t, models.Uniform(3), profile.SensitivityLevels)

	w := env.do(t, http.MethodGet, "/api/v1/profiles/"+profile.ID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/profiles/"+profile.ID.String(), `{"name":"Mia B","language":"fr"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Mia B", updated.Name)
	assert.Equal(t, 7, updated.Age)

	w = env.do(t, http.MethodGet, "/api/v1/profiles", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = env.do(t, http.MethodDelete, "/api/v1/profiles/"+profile.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/profiles/"+profile.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PROFILE_NOT_FOUND", errorCode(t, w))
}

func TestProfileHandler_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"bad id", http.MethodGet, "/api/v1/profiles/not-a-uuid", "", http.StatusBadRequest, "INVALID_PROFILE_ID"},
		{"malformed body", http.MethodPost, "/api/v1/profiles", `{"name":`, http.StatusBadRequest, "INVALID_REQUEST_BODY"},
		{"missing name", http.MethodPost, "/api/v1/profiles", `{"age":5}`, http.StatusBadRequest, "INVALID_PROFILE"},
		{"genre conflict", http.MethodPost, "/api/v1/profiles", `{"name":"Leo","favorite_genres":["27"],"disliked_genres":["27"]}`, http.StatusUnprocessableEntity, "GENRE_CONFLICT"},
		{"bad language", http.MethodPost, "/api/v1/profiles", `{"name":"Leo","language":"!!"}`, http.StatusBadRequest, "INVALID_LANGUAGE"},
		{"unknown profile", http.MethodDelete, "/api/v1/profiles/" + uuid.NewString(), "", http.StatusNotFound, "PROFILE_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestProfileHandler_SetGenrePreference(t *testing.T) {
	env := newTestEnv(t)
	profile := env.createProfile(t, `{"name":"Leo","favorite_genres":["27"]}`)

	w := env.do(t, http.MethodPut, "/api/v1/profiles/"+profile.ID.String()+"/genres/27", `{"preference":"disliked"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Empty(t, updated.FavoriteGenres)
	assert.Equal(t, []string{"27"}, updated.DislikedGenres)
}

func TestSelectionHandler(t *testing.T) {
	env := newTestEnv(t)
	a := env.createProfile(t, `{"name":"A"}`)
	b := env.createProfile(t, `{"name":"B"}`)

	w := env.do(t, http.MethodGet, "/api/v1/selection", "")
	assert.JSONEq(t, `{"profile_ids":[]}`, w.Body.String())

	w = env.do(t, http.MethodPut, "/api/v1/selection", `{"profile_ids":["`+a.ID.String()+`"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/selection/"+b.ID.String()+"/toggle", "")
	assert.JSONEq(t, `{"profile_ids":["`+a.ID.String()+`","`+b.ID.String()+`"]}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/selection/"+a.ID.String()+"/toggle", "")
	assert.JSONEq(t, `{"profile_ids":["`+b.ID.String()+`"]}`, w.Body.String())

	w = env.do(t, http.MethodPut, "/api/v1/selection", `{"profile_ids":["`+uuid.NewString()+`"]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/v1/selection", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodGet, "/api/v1/selection", "")
	assert.JSONEq(t, `{"profile_ids":[]}`, w.Body.String())
}

func TestRecommendationHandler_UsesSelection(t *testing.T) {
	env := newTestEnv(t)
	profile := env.createProfile(t, `{"name":"Mia","age":7}`)
	env.do(t, http.MethodPut, "/api/v1/selection", `{"profile_ids":["`+profile.ID.String()+`"]}`)

	generatedAt := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	env.orchestrator.On("GenerateRecommendations", mock.Anything,
		mock.MatchedBy(func(a models.QuestionnaireAnswers) bool {
			return a.Mood == "happy" && a.Duration == models.NoDurationLimit && a.MaxResults == 3
		}),
		mock.MatchedBy(func(p []models.Profile) bool { return len(p) == 1 && p[0].ID == profile.ID }),
	).Return(&services.RecommendationResult{
		Movies:      []models.Movie{{ID: 12, Title: "Finding Nemo", MatchScore: 80}},
		Source:      "tmdb",
		GeneratedAt: generatedAt,
	}, nil)

	w := env.do(t, http.MethodPost, "/api/v1/recommendations", `{"mood":"happy","max_results":3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []uuid.UUID{profile.ID}, resp.ProfileIDs)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "Finding Nemo", resp.Recommendations[0].Title)
	assert.Equal(t, "tmdb", resp.Source)
	assert.True(t, generatedAt.Equal(resp.GeneratedAt))
	env.orchestrator.AssertExpectations(t)
}

func TestRecommendationHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"empty selection", services.ErrEmptySelection, http.StatusUnprocessableEntity, "EMPTY_SELECTION"},
		{"catalog down", errors.Join(services.ErrCatalogUnavailable, errors.New("dial tcp: timeout")), http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.orchestrator.On("GenerateRecommendations", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			w := env.do(t, http.MethodPost, "/api/v1/recommendations", "")
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
			assert.NotContains(t, w.Body.String(), "dial tcp")
		})
	}
}

func TestRecommendationHandler_UnknownProfileID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/recommendations", `{"profile_ids":["`+uuid.NewString()+`"]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env.orchestrator.AssertNotCalled(t, "GenerateRecommendations", mock.Anything, mock.Anything, mock.Anything)
}

func TestHistoryHandler(t *testing.T) {
	env := newTestEnv(t)
	profile := env.createProfile(t, `{"name":"Mia"}`)

	w := env.do(t, http.MethodPost, "/api/v1/history",
		`{"movie":{"id":862,"title":"Toy Story","match_score":90},"rating":4,"watched_with":["`+profile.ID.String()+`"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var record models.WatchedMovie
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, 862, record.ID)
	assert.Equal(t, 4, record.Rating)
	assert.Zero(t, record.MatchScore)

	w = env.do(t, http.MethodGet, "/api/v1/history", "")
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = env.do(t, http.MethodGet, "/api/v1/history?year=1999", "")
	assert.Contains(t, w.Body.String(), `"count":0`)

	w = env.do(t, http.MethodGet, "/api/v1/history?year=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/history/years", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/history/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary models.HistorySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalWatched)
	assert.Equal(t, 4.0, summary.AverageRating)

	w = env.do(t, http.MethodPost, "/api/v1/history", `{"movie":{"id":0,"title":"?"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_MOVIE", errorCode(t, w))
}

func TestOptions(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/options", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, key := range []string{"genres", "platforms", "moods", "durations", "ratings", "certifications", "languages"} {
		assert.NotEmpty(t, body[key], key)
	}
	assert.Len(t, body["platforms"], 8)
}
