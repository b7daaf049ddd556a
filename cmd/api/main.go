package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"projmatch/internal/app"
	"projmatch/internal/config"
	"projmatch/internal/database"
	"projmatch/internal/domain/archive"
	apphttp "projmatch/internal/http"
	"projmatch/internal/http/handlers"
	"projmatch/internal/http/metrics"
	httpmw "projmatch/internal/http/middleware"
	"projmatch/internal/http/response"
	"projmatch/internal/observability"
	"projmatch/internal/repository/postgres"
	"projmatch/internal/search"
	"projmatch/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	if cfg.RunMigrations {
		if err := database.Migrate(db); err != nil {
			log.Fatal(err)
		}
	}

	userRepo := postgres.NewUserRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	archiveRepo := postgres.NewArchiveRepository(db)

	var archiveReader archive.Reader = archiveRepo
	if cfg.ElasticURL != "" {
		esClient, err := search.Connect(cfg.ElasticURL)
		if err != nil {
			log.Fatal(err)
		}
		index := search.NewArchiveIndex(esClient)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := index.EnsureIndex(ctx); err != nil {
			cancel()
			log.Fatal(err)
		}
		items, err := archiveRepo.ListAll(ctx)
		if err != nil {
			cancel()
			log.Fatal(err)
		}
		if err := index.Reindex(ctx, items); err != nil {
			cancel()
			log.Fatal(err)
		}
		cancel()
		archiveReader = index
		logger.Info("archive search backed by Elasticsearch")
	}

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)

	bookingCoordinator := app.NewBookingCoordinator(projectRepo)
	identityService := app.NewIdentityService(userRepo, logger)
	projectService := app.NewProjectService(projectRepo, userRepo)
	applicationService := app.NewApplicationService(applicationRepo, projectRepo, userRepo, bookingCoordinator, logger)
	archiveService := app.NewArchiveService(archiveReader)

	var limiter httpmw.Limiter = httpmw.NewRateLimiter()
	if cfg.RedisAddr != "" {
		limiter = httpmw.NewRedisLimiter(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		logger.Info("rate limiting backed by Redis")
	}

	userHandler := handlers.NewUserHandler(identityService)
	projectHandler := handlers.NewProjectHandler(projectService, identityService)
	applicationHandler := handlers.NewApplicationHandler(applicationService, identityService, limiter)
	archiveHandler := handlers.NewArchiveHandler(archiveService)
	authMiddleware := httpmw.NewAuthMiddleware(jwtProvider)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		UserHandler:        userHandler,
		ProjectHandler:     projectHandler,
		ApplicationHandler: applicationHandler,
		ArchiveHandler:     archiveHandler,
		AuthMiddleware:     authMiddleware,
		Metrics:            collector,
		RequestTimeout:     cfg.RequestTimeout,
	})

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      corsWrapper.Handler(router),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
