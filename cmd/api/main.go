package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/dferrante/anchorline/docs"
	"github.com/dferrante/anchorline/internal/adapters/cache"
	adapterHTTP "github.com/dferrante/anchorline/internal/adapters/handler/http"
	"github.com/dferrante/anchorline/internal/adapters/repository"
	"github.com/dferrante/anchorline/internal/config"
	"github.com/dferrante/anchorline/internal/core/domain"
	"github.com/dferrante/anchorline/internal/core/events"
	"github.com/dferrante/anchorline/internal/core/services"
	"github.com/dferrante/anchorline/internal/logger"
	"github.com/dferrante/anchorline/internal/metrics"
)

// @title Anchorline API
// @version 1.0
// @description Task and anchor tracking with a streak ledger.
// @BasePath /api/v1
func main() {
	startTime := time.Now()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Critical: failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("Critical: failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("connecting to database", zap.String("host", cfg.DB.Host))

	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Redis is optional: without it the anchor cache and rate limiter are
	// skipped and every request hits Postgres directly.
	rdb, err := cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		zlog.Warn("redis unavailable, continuing without cache and rate limiting", zap.Error(err))
		rdb = nil
	}

	userRepo := repository.NewPostgresUserRepository(db)
	taskRepo := repository.NewPostgresTaskRepository(db)
	streakRepo := repository.NewPostgresStreakRepository(db)
	settingsRepo := repository.NewPostgresSettingsRepository(db)

	var anchors domain.AnchorRepository = repository.NewPostgresAnchorRepository(db)
	if rdb != nil {
		anchors = repository.NewCachedAnchorRepository(anchors, rdb, zlog)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus(64, zlog)
	bus.Subscribe(func(evt events.Event) {
		metrics.RecordTaskEvent(evt.Type)
	})
	bus.Start(ctx)

	authService := services.NewAuthService(userRepo)
	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TokenTTL, userRepo)
	taskService := services.NewTaskService(taskRepo, anchors, streakRepo, bus, zlog)
	anchorService := services.NewAnchorService(anchors, zlog)
	streakService := services.NewStreakService(streakRepo, zlog)
	settingsService := services.NewSettingsService(settingsRepo, zlog)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:       adapterHTTP.NewAuthHandler(authService, tokenService),
		TaskHandler:       adapterHTTP.NewTaskHandler(taskService),
		AnchorHandler:     adapterHTTP.NewAnchorHandler(anchorService),
		StreakHandler:     adapterHTTP.NewStreakHandler(streakService),
		SettingsHandler:   adapterHTTP.NewSettingsHandler(settingsService),
		DevHandler:        adapterHTTP.NewDevHandler(streakService, cfg.Server.Env),
		TokenService:      tokenService,
		DB:                db,
		Redis:             rdb,
		Logger:            zlog,
		StartTime:         startTime,
		RateLimitRequests: cfg.RateLimit.Requests,
		RateLimitWindow:   cfg.RateLimit.Window,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zlog.Info("anchorline api listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("stop signal received, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("forced shutdown", zap.Error(err))
	}

	zlog.Info("server stopped gracefully")
}
