// Package main is the entry point for the reservation server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/douglasrujana/react-form-restaurant/internal/config"
	"github.com/douglasrujana/react-form-restaurant/internal/handler"
	"github.com/douglasrujana/react-form-restaurant/internal/middleware"
	"github.com/douglasrujana/react-form-restaurant/internal/refresh"
	"github.com/douglasrujana/react-form-restaurant/internal/repo"
	"github.com/douglasrujana/react-form-restaurant/internal/service"
	"github.com/douglasrujana/react-form-restaurant/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A .env file is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Presence only; connection strings and keys are never logged.
	slog.Debug("configuration loaded",
		"store_backend", cfg.StoreBackend,
		"database_url_set", cfg.DatabaseURL != "",
		"supabase_url_set", cfg.SupabaseURL != "",
		"supabase_anon_key_set", cfg.SupabaseAnonKey != "",
		"redis_url_set", cfg.RedisURL != "",
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Store ------------------------------------------------------------
	var store repo.ReservationRepo
	switch cfg.StoreBackend {
	case config.BackendPostgREST:
		store = repo.NewPostgRESTRepo(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)
		slog.Info("using PostgREST store", "url", cfg.SupabaseURL)
	default:
		// pgxpool.New does not open connections immediately; the ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		slog.Info("database connection established")

		if cfg.MigrateOnStart {
			// goose speaks database/sql; borrow a connection from the pool.
			db := stdlib.OpenDBFromPool(pool)
			err := migrations.Up(ctx, db, logger)
			db.Close()
			if err != nil {
				slog.Error("failed to apply migrations", "error", err)
				os.Exit(1)
			}
		}
		store = repo.NewReservationRepo(pool)
	}

	// --- Refresh ----------------------------------------------------------
	broker := refresh.NewBroker()
	var notifier refresh.Notifier = broker
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		relay := refresh.NewRedisRelay(rdb, refresh.DefaultChannel, broker, logger)
		go func() {
			if err := relay.Run(ctx, nil); err != nil && ctx.Err() == nil {
				slog.Error("refresh relay stopped", "error", err)
			}
		}()
		notifier = relay
		slog.Info("refresh relay enabled", "channel", refresh.DefaultChannel)
	}

	// --- Services ---------------------------------------------------------
	reservations := service.NewReservationService(store, logger)
	submitter := service.NewSubmitter(reservations, notifier, logger)
	lister := service.NewLister(reservations, logger)

	sub := broker.Subscribe()
	defer sub.Close()
	go lister.Run(ctx, sub.C())

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → body limit → CORS.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	// CORS answers preflights for the configured origins; the page itself is same-origin.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))

	srvHandler := handler.NewServer(submitter, lister, reservations, logger)
	r.Mount("/", srvHandler.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// The event stream clears its own write deadline.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Open event streams never go idle; end them as soon as Shutdown starts.
	srv.RegisterOnShutdown(srvHandler.CloseStreams)

	<-stop
	slog.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
