package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/academia-backend/internal/config"
	"github.com/stemsi/academia-backend/internal/database"
	"github.com/stemsi/academia-backend/internal/handler"
	"github.com/stemsi/academia-backend/internal/logger"
	"github.com/stemsi/academia-backend/internal/repository"
	"github.com/stemsi/academia-backend/internal/router"
	"github.com/stemsi/academia-backend/internal/service"
	"github.com/stemsi/academia-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Dur("store_latency", cfg.StoreLatency).
		Msg("Starting Academia Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Initialize Store ──────────────────────────────────────────────
	repos := repository.New(database.FixedLatency(cfg.StoreLatency))
	if cfg.SeedDemoData {
		seedCtx, seedCancel := context.WithTimeout(ctx, time.Minute)
		if err := repository.Seed(seedCtx, repos, cfg.BcryptCost); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed demo data")
		}
		seedCancel()
		log.Info().Msg("Demo data loaded")
	}

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// ─── Initialize Services ──────────────────────────────────────────
	events := service.NewEventPublisher(rdb)
	authService := service.NewAuthService(cfg, repos.User)
	aggregator := service.NewCourseAggregator(repos, cfg.AggregationConcurrency, log)
	synchronizer := service.NewCourseSynchronizer(repos, aggregator, events, log)
	courseService := service.NewCourseService(repos, events, log)
	scheduleService := service.NewScheduleService(repos, events, log)
	programService := service.NewProgramService(repos)
	classroomService := service.NewClassroomService(repos)
	userService := service.NewUserService(repos, authService)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Health:    handler.NewHealthHandler(rdb),
		Auth:      handler.NewAuthHandler(authService),
		Course:    handler.NewCourseHandler(aggregator, synchronizer, courseService),
		Schedule:  handler.NewScheduleHandler(scheduleService),
		Program:   handler.NewProgramHandler(programService),
		Classroom: handler.NewClassroomHandler(classroomService),
		User:      handler.NewUserHandler(userService),
	}
	attachStreams(handlers, aggregator, rdb, log, cfg)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout). Open streams end
	// when their request contexts are cancelled.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background loops such as the rate limiter sweep.
	cancel()

	log.Info().Msg("Shutdown complete")
}

// attachStreams wires the Redis-backed live endpoints when an event bus is
// available.
func attachStreams(h *router.Handlers, aggregator *service.CourseAggregator, rdb *redis.Client, log zerolog.Logger, cfg *config.Config) {
	if rdb == nil {
		return
	}
	h.Monitor = handler.NewMonitorHandler(aggregator, rdb, log)
	h.WS = handler.NewWSHandler(rdb, log, cfg.AllowedOrigins)
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
