package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/HarshShiyani/fitness-tracker/internal/api"
	"github.com/HarshShiyani/fitness-tracker/internal/auth"
	"github.com/HarshShiyani/fitness-tracker/internal/config"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
	"github.com/HarshShiyani/fitness-tracker/internal/persistence/memory"
	persistence "github.com/HarshShiyani/fitness-tracker/internal/persistence/postgres"
	"github.com/HarshShiyani/fitness-tracker/internal/seed"
	httptransport "github.com/HarshShiyani/fitness-tracker/internal/transport/http"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	tokens := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer, TTL: cfg.JWTTTL}
	users := domain.NewUserService(store, auth.NewBcryptHasher(cfg.BcryptCost), logger)
	plans := domain.NewWorkoutPlanService(store, logger)
	logs := domain.NewActivityLogService(store, logger)

	seedFile, err := seed.Load(cfg.SeedFile)
	if err != nil {
		logger.Error("failed to load seed file", "error", err)
		os.Exit(1)
	}
	if err := seed.NewSeeder(store.Users, users, logger).Run(ctx, seedFile); err != nil {
		logger.Error("failed to seed users", "error", err)
		os.Exit(1)
	}

	handler := api.NewHandler(users, plans, logs, tokens, logger)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", auth.HeaderUserID, httptransport.HeaderRequestID},
		ExposedHeaders:   []string{httptransport.HeaderRequestID},
		AllowCredentials: true,
	})
	authMiddleware := auth.NewMiddleware(auth.NewResolver(store.Users, tokens), skipIdentity, logger)

	server := httptransport.NewServer(httptransport.DefaultServerConfig(cfg.HTTPAddress), httptransport.Chain(mux,
		httptransport.Recovery(logger),
		httptransport.RequestID(),
		httptransport.AccessLog(logger),
		corsMiddleware.Handler,
		authMiddleware.Wrap,
		httptransport.Metrics(),
	))

	go func() {
		logger.Info("fitness-tracker listening", "address", cfg.HTTPAddress, "storage", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (domain.Store, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		return memory.NewStore().Domain(), func() {}, nil
	}

	pool, err := persistence.CreateConnectionPool(ctx, cfg.PostgresURL)
	if err != nil {
		return domain.Store{}, nil, err
	}
	if err := persistence.Migrate(ctx, pool); err != nil {
		pool.Close()
		return domain.Store{}, nil, err
	}
	return persistence.NewStore(pool, logger), pool.Close, nil
}

func skipIdentity(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/metrics", "/api/auth/login":
		return true
	}
	return false
}
