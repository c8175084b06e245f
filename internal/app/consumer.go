package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-erp/internal/bootstrap"
	"go-erp/internal/events"
	"go-erp/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
)

// RunConsumer generates payroll runs requested over Kafka until SIGINT/SIGTERM.
func RunConsumer(infra *Infra) error {
	logger := infra.Logger.Named("app.consumer")
	cfg := infra.Config

	svc, err := NewServices(infra, bootstrap.NewZapAuditLogger(infra.Logger))
	if err != nil {
		return err
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          events.PayrollRunRequestedTopic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumePayrollRunRequested(ctx, reader, svc.Payroll, logger)

	logger.Info("consumer shut down")
	return nil
}
