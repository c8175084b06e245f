package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-erp/internal/messaging/kafka"
	"go-erp/internal/messaging/kafka/producer"
	"go-erp/internal/shared/connection"
)

// RunWorker relays pending outbox rows to Kafka until SIGINT/SIGTERM.
func RunWorker(infra *Infra) error {
	logger := infra.Logger.Named("app.worker")
	cfg := infra.Config

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Brokers, cfg.Database.MaxRetries, logger)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(infra.DB)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	producer.ProcessOutboxEvents(ctx, outboxRepo, kafkaWriter, infra.Metrics, logger, cfg.Kafka.PollInterval)

	logger.Info("worker shut down")
	return nil
}
