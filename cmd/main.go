package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"studysync-api/internal/config"
	"studysync-api/internal/database"
	"studysync-api/internal/handler"
	"studysync-api/internal/middleware"
	"studysync-api/internal/recommender"
	"studysync-api/internal/repository"
	"studysync-api/internal/search"
	"studysync-api/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	settings, err := recommender.LoadSettings(cfg.CatalogPath)
	if err != nil {
		slog.Error("failed to load scoring catalog", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to Redis (non-fatal if unavailable)
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache and rate limiting", "error", err)
	} else {
		defer rdb.Close()
	}

	// Initialize layers
	users := repository.NewUserRepository(db)
	bookmarks := repository.NewBookmarkRepository(db)
	activity := repository.NewActivityRepository(db)
	snapshots := repository.NewSnapshotRepository(db)

	scorer := recommender.NewScorer(settings, recommender.WithLogger(log))
	authSvc := service.NewAuthService(users, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)
	recSvc := service.NewRecommendationService(scorer, activity, bookmarks, snapshots, rdb, cfg.RecommendationCacheTTL, cfg.RecentActivityLimit)
	searchSvc := service.NewSearchService(
		search.NewYouTubeClient(cfg.Search.YouTubeAPIKey, cfg.Search.YouTubeBaseURL),
		search.NewBooksClient(cfg.Search.GoogleBooksAPIKey, cfg.Search.GoogleBooksBaseURL),
		rdb,
		cfg.Search.CacheTTL,
	)

	h := handler.Handlers{
		Auth:            handler.NewAuthHandler(authSvc),
		Bookmarks:       handler.NewBookmarkHandler(service.NewBookmarkService(bookmarks, settings.Catalog, recSvc)),
		Activity:        handler.NewActivityHandler(service.NewActivityService(activity, settings.Catalog, recSvc, cfg.RecentActivityLimit)),
		Recommendations: handler.NewRecommendationHandler(recSvc),
		Search:          handler.NewSearchHandler(searchSvc),
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:         "StudySync API",
		ServerHeader:    "StudySync-API",
		ErrorHandler:    handler.ErrorHandler,
		StructValidator: handler.NewStructValidator(),
		JSONEncoder:     json.Marshal,
		JSONDecoder:     json.Unmarshal,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))
	app.Use(middleware.NewRateLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window).Handler())
	app.Use(middleware.Auth(authSvc, handler.PublicPrefixes...))

	// Swagger docs
	swaggerYAML, err := os.ReadFile("docs/swagger.yaml")
	if err != nil {
		slog.Warn("swagger.yaml not found, swagger UI will be unavailable", "error", err)
	} else {
		handler.RegisterSwagger(app, swaggerYAML, "StudySync API")
	}

	handler.RegisterRoutes(app, h)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutting down studysync api...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Port
	slog.Info("starting studysync api", "addr", addr, "content_types", settings.Catalog.ContentTypes)
	if err := app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	// Let background snapshot writes finish before the pool closes.
	recSvc.Wait()
	slog.Info("server stopped")
}
