package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"go-erp/internal/events"
	"go-erp/internal/payroll"
	payrollerrors "go-erp/internal/payroll/errors"
	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/contextutil"
	"go-erp/internal/shared/dateutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type RunGenerator interface {
	GenerateRun(ctx context.Context, in payroll.GenerateRunInput) (payroll.GenerateRunResult, error)
}

func ConsumePayrollRunRequested(
	ctx context.Context,
	reader MessageReader,
	generator RunGenerator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_run_requested")
	log.Info("payroll run consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run consumer stopped")
				return
			}
			log.Error("fetch payroll run message failed", zap.Error(err))
			continue
		}

		if !HandlePayrollRunRequested(ctx, msg, generator, log) {
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll run message failed", zap.Error(err))
		}
	}
}

// HandlePayrollRunRequested processes one message and reports whether its
// offset should be committed. Malformed messages and rejected requests are
// committed; transient failures are left for redelivery.
func HandlePayrollRunRequested(ctx context.Context, msg kafkago.Message, generator RunGenerator, log *zap.Logger) bool {
	for _, h := range msg.Headers {
		if h.Key == "request_id" && len(h.Value) > 0 {
			ctx = contextutil.WithRequestID(ctx, string(h.Value))
		}
	}

	var event events.PayrollRunRequestedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode payroll run requested event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		return true
	}

	in, err := toGenerateInput(event)
	if err != nil {
		log.Error("invalid payroll run requested event",
			zap.String("pay_period_start", event.PayPeriodStart),
			zap.String("pay_period_end", event.PayPeriodEnd),
			zap.Error(err),
		)
		return true
	}

	res, err := generator.GenerateRun(ctx, in)
	if err != nil {
		if errors.Is(err, payrollerrors.ErrPayrollRunExists) {
			log.Warn("payroll run already exists for period, skipping",
				zap.String("pay_period_start", event.PayPeriodStart),
				zap.String("pay_period_end", event.PayPeriodEnd),
			)
			return true
		}
		if errors.Is(err, payrollerrors.ErrPayrollRunInProgress) || ctx.Err() != nil {
			log.Warn("payroll run deferred", zap.Error(err))
			return false
		}
		if appErr := apperror.ToHTTP(err); appErr.HTTPStatus < 500 {
			log.Error("payroll run request rejected", zap.String("code", appErr.Code), zap.Error(err))
			return true
		}
		log.Error("generate payroll run failed", zap.Error(err))
		return false
	}

	log.Info("payroll run generated from request",
		zap.Uint64("run_id", res.Run.ID),
		zap.String("run_number", res.Run.RunNumber),
		zap.Int("processed", res.Processed),
		zap.Int("skipped", len(res.Skipped)),
	)
	return true
}

func toGenerateInput(event events.PayrollRunRequestedEvent) (payroll.GenerateRunInput, error) {
	start, err := dateutil.ParseDate(event.PayPeriodStart)
	if err != nil {
		return payroll.GenerateRunInput{}, err
	}
	end, err := dateutil.ParseDate(event.PayPeriodEnd)
	if err != nil {
		return payroll.GenerateRunInput{}, err
	}

	in := payroll.GenerateRunInput{
		PeriodStart: start,
		PeriodEnd:   end,
		CreatedBy:   event.RequestedBy,
		Replace:     event.Replace,
	}
	if event.RunDate != "" {
		if in.RunDate, err = dateutil.ParseDate(event.RunDate); err != nil {
			return payroll.GenerateRunInput{}, err
		}
	}
	return in, nil
}
