package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/archive"
	"github.com/spbu-ds-practicum-2025/bank-backoffice/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		logrus.Fatalf("failed to create logger: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"clickhouse": cfg.ClickHouse.Host + "/" + cfg.ClickHouse.Database,
		"exchange":   cfg.RabbitMQ.Exchange,
		"queue":      cfg.RabbitMQ.Queue,
	}).Info("starting operation archiver")

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("archiver stopped with error")
	}
	logger.Info("archiver stopped gracefully")
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := archive.NewClickHouseClient(ctx, cfg.ClickHouse)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.EnsureSchema(ctx); err != nil {
		return err
	}
	logger.Info("connected to ClickHouse")

	consumer, err := archive.NewConsumer(cfg.RabbitMQ, archive.NewOperationRepository(client), logger)
	if err != nil {
		return fmt.Errorf("failed to create RabbitMQ consumer: %w", err)
	}
	defer consumer.Close()

	return consumer.Start(ctx)
}
