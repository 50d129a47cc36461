package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temcen/popcornpick/internal/config"
	"github.com/temcen/popcornpick/pkg/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Storage: config.StorageConfig{Backend: config.BackendMemory},
		Catalog: config.CatalogConfig{Source: config.SourceSample},
		Recommendation: config.RecommendationConfig{
			CatalogFailurePolicy: config.PolicyError,
			UnratedPolicy:        config.UnratedAllow,
			MaxResultsLimit:      20,
			DefaultResults:       5,
		},
		RateLimit:  config.RateLimitConfig{Enabled: false},
		Logging:    config.LoggingConfig{Level: "error", Format: "text"},
		Monitoring: config.MonitoringConfig{MetricsPath: "/metrics"},
		Security: config.SecurityConfig{CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
			AllowedHeaders: []string{"Content-Type"},
		}},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	a, err := New(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
	})
	return a
}

func do(t *testing.T, a *App, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	return w
}

func TestApp_FamilyMovieNight(t *testing.T) {
	a := newTestApp(t)

	w := do(t, a, http.MethodPost, "/api/v1/profiles",
		`{"name":"Mia","age":7,"favorite_genres":["16","10751"],"disliked_genres":["27"],
		  "sensitivity_levels":{"violence":2,"language":2,"sexual_content":1,"frightening":2}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var mia models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mia))

	w = do(t, a, http.MethodPost, "/api/v1/selection/"+mia.ID.String()+"/toggle", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, a, http.MethodPost, "/api/v1/recommendations", `{"mood":"happy","duration":120,"max_results":3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sample", resp.Source)
	require.NotEmpty(t, resp.Recommendations)
	assert.LessOrEqual(t, len(resp.Recommendations), 3)
	for i, m := range resp.Recommendations {
		assert.NotContains(t, m.GenreIDs, 27)
		assert.LessOrEqual(t, m.Runtime, 120)
		if i > 0 {
			assert.GreaterOrEqual(t, resp.Recommendations[i-1].MatchScore, m.MatchScore)
		}
	}
}

func TestApp_EmptySelection(t *testing.T) {
	a := newTestApp(t)

	w := do(t, a, http.MethodPost, "/api/v1/recommendations", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "EMPTY_SELECTION")
}

func TestApp_SchemaValidation(t *testing.T) {
	a := newTestApp(t)

	w := do(t, a, http.MethodPost, "/api/v1/recommendations", `{"min_rating":42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestApp_HealthAndMetrics(t *testing.T) {
	a := newTestApp(t)

	w := do(t, a, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = do(t, a, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recommendation_catalog_fallbacks_total")
}
