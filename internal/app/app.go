package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/temcen/popcornpick/internal/config"
	"github.com/temcen/popcornpick/internal/database"
	"github.com/temcen/popcornpick/internal/handlers"
	"github.com/temcen/popcornpick/internal/middleware"
	"github.com/temcen/popcornpick/internal/services"
	"github.com/temcen/popcornpick/internal/validation"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine
	cancel   context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	// Initialize database connections
	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	// Initialize services
	services, err := services.New(ctx, cfg, app.logger, db)
	if err != nil {
		cancel()
		db.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = services

	if cfg.Monitoring.Enabled {
		services.Health.Start(ctx)
	}

	app.handlers = handlers.New(app.logger, services)

	validator, err := validation.NewSchemaValidator()
	if err != nil {
		cancel()
		db.Close()
		return nil, fmt.Errorf("failed to load request schemas: %w", err)
	}

	app.setupRouter(middleware.NewValidationMiddleware(validator))

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")
	a.cancel()

	var errs []error
	if err := a.services.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing event publisher")
		errs = append(errs, err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter(vm *middleware.ValidationMiddleware) {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsPath := a.config.Monitoring.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(&a.config.Security.CORS))
	router.Use(middleware.CompressionMiddleware(metricsPath))

	router.GET("/health", a.handlers.Health.Check)
	router.GET(metricsPath, gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.Use(middleware.RateLimit(a.services.RateLimit, a.logger))

		api.GET("/health", a.handlers.Health.Check)
		api.GET("/options", handlers.Options)

		profiles := api.Group("/profiles")
		{
			profiles.GET("", a.handlers.Profiles.List)
			profiles.POST("", vm.ValidateProfile(), a.handlers.Profiles.Create)
			profiles.GET("/:profileId", a.handlers.Profiles.Get)
			profiles.PUT("/:profileId", vm.ValidateProfile(), a.handlers.Profiles.Update)
			profiles.DELETE("/:profileId", a.handlers.Profiles.Delete)
			profiles.PUT("/:profileId/genres/:genreId", vm.ValidateGenrePreference(), a.handlers.Profiles.SetGenrePreference)
		}

		selection := api.Group("/selection")
		{
			selection.GET("", a.handlers.Selection.Get)
			selection.PUT("", vm.ValidateSelection(), a.handlers.Selection.Replace)
			selection.DELETE("", a.handlers.Selection.Clear)
			selection.POST("/:profileId/toggle", a.handlers.Selection.Toggle)
		}

		api.POST("/recommendations", vm.ValidateRecommendation(), a.handlers.Recommendation.Recommend)

		history := api.Group("/history")
		{
			history.GET("", a.handlers.History.List)
			history.POST("", vm.ValidateWatch(), a.handlers.History.MarkWatched)
			history.GET("/years", a.handlers.History.Years)
			history.GET("/summary", a.handlers.History.Summary)
		}
	}

	a.router = router
}
