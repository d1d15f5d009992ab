// cmd/main.go is the application entry point. It wires the storage, the
// activities API and the web UI into one server, then runs it with
// graceful shutdown.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mergington/activities/internal/client"
	"github.com/mergington/activities/internal/config"
	"github.com/mergington/activities/internal/database"
	"github.com/mergington/activities/internal/handler"
	"github.com/mergington/activities/internal/repository"
	"github.com/mergington/activities/internal/service"
	"github.com/mergington/activities/internal/web"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// ── Storage ──────────────────────────────────────────────────────────
	var repo repository.ActivityRepository
	switch cfg.Storage {
	case "postgres":
		pool, err := database.NewPool(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("database")
		}
		defer pool.Close()
		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("schema")
		}
		repo = repository.NewPostgresRepository(pool)
		if err := repository.SeedIfEmpty(ctx, repo); err != nil {
			log.Fatal().Err(err).Msg("seed")
		}
		log.Info().Msg("using postgres storage")
	default:
		repo = repository.NewMemoryRepository(repository.SampleActivities()...)
		log.Info().Msg("using in-memory storage with sample activities")
	}

	// ── API layer ────────────────────────────────────────────────────────
	svc := service.NewActivityService(repo)
	apiHandler := handler.NewActivityHandler(svc)

	// ── Web UI layer ─────────────────────────────────────────────────────
	// The UI consumes the REST contract over HTTP even when both live in
	// the same process, so it works identically against a remote backend.
	backendURL := cfg.BackendURL
	if backendURL == "" {
		backendURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.Port)
	}
	apiClient := client.New(backendURL, nil)
	controller := web.NewController(
		apiClient,
		web.NewRenderer(),
		web.NewFlashStore([]byte(cfg.SessionSecret), cfg.FlashTTL),
		log.Logger,
	)

	// ── Router ───────────────────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.Logger(log.Logger))
	r.Use(handler.CORS)

	r.Get("/health", handler.HealthCheck)
	r.Mount("/api/activities", apiHandler.Routes())
	r.Mount("/", controller.Routes())

	// ── Server with graceful shutdown ────────────────────────────────────
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("activities portal started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
