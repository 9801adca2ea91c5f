// Command outboxrelay drains pending outbox rows to Kafka once and exits.
// Run it from an external scheduler.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/HarshShiyani/fitness-tracker/internal/config"
	"github.com/HarshShiyani/fitness-tracker/internal/outbox"
	persistence "github.com/HarshShiyani/fitness-tracker/internal/persistence/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if cfg.StorageDriver != config.StoragePostgres {
		logger.Error("outbox relay requires the postgres storage driver", "driver", cfg.StorageDriver)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := persistence.CreateConnectionPool(ctx, cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	producer := outbox.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaWriteTimeout)
	defer producer.Close()

	relay := outbox.NewRelay(persistence.NewRelaySource(pool, logger), producer, cfg.OutboxBatchSize, logger)
	delivered, err := relay.RunOnce(ctx)
	if err != nil {
		logger.Error("outbox relay failed", "delivered", delivered, "error", err)
		os.Exit(1)
	}
	logger.Info("outbox relay finished", "delivered", delivered)
}
