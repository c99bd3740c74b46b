package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/cinematch/engine/internal/cache"
	"github.com/cinematch/engine/internal/config"
	"github.com/cinematch/engine/internal/database"
	"github.com/cinematch/engine/internal/engine"
	"github.com/cinematch/engine/internal/handlers"
	"github.com/cinematch/engine/internal/messaging"
	"github.com/cinematch/engine/internal/metrics"
	"github.com/cinematch/engine/internal/middleware"
	"github.com/cinematch/engine/internal/store"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	ranker   *engine.Ranker
	consumer *messaging.InteractionConsumer
	handlers *handlers.Handlers
	router   *gin.Engine

	consumerCancel context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	resultCache := app.setupCache()

	movies := store.NewMovieStore(db.PG, app.logger)
	app.ranker = engine.NewRanker(movies, movies, movies, resultCache, m, &cfg.Engine, app.logger)

	if cfg.Kafka.Enabled {
		app.consumer = messaging.NewInteractionConsumer(&cfg.Kafka, resultCache, app.logger)
	}

	app.handlers = handlers.New(app.logger, app.ranker, app.healthChecks())
	app.setupRouter(registry)

	return app, nil
}

// setupCache picks the result cache backend. Redis when configured, an
// in-process cache otherwise, so a single-node deployment needs no extra
// infrastructure.
func (a *App) setupCache() cache.ResultCache {
	if a.config.Redis.Enabled && a.db.Redis != nil {
		a.logger.Info("Using Redis result cache")
		return cache.NewRedisCache(a.db.Redis, a.logger)
	}
	a.logger.Info("Using in-memory result cache")
	return cache.NewMemoryCache()
}

func (a *App) healthChecks() map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{
		"postgres": func(ctx context.Context) error {
			return a.db.PG.Ping(ctx)
		},
	}
	if a.db.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.db.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Start launches background workers. Safe to call when Kafka is disabled.
func (a *App) Start() {
	if a.consumer == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.consumerCancel = cancel

	go func() {
		if err := a.consumer.Run(ctx); err != nil && ctx.Err() == nil {
			a.logger.WithError(err).Error("Interaction consumer stopped")
		}
	}()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if a.consumerCancel != nil {
		a.consumerCancel()
	}
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.WithError(err).Error("Error closing interaction consumer")
		}
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
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

func (a *App) setupRouter(registry *prometheus.Registry) {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))

	router.GET("/health", a.handlers.Health.Health)
	router.GET("/ready", a.handlers.Health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	{
		recommendations := api.Group("/recommendations")
		{
			recommendations.GET("", a.handlers.Recommendation.GetAnonymousRecommendations)
			recommendations.GET("/:userId", a.handlers.Recommendation.GetRecommendations)
		}

		movies := api.Group("/movies")
		{
			movies.GET("/:movieId/similar", a.handlers.Recommendation.GetSimilarMovies)
		}
	}

	a.router = router
}
