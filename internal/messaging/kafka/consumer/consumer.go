package consumer

import (
	"context"
	"encoding/json"
	"time"

	"leavehub/internal/events"
	"leavehub/internal/quota"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEmployeeLifecycle provisions the leave ledger for every newly
// onboarded employee. Provision is idempotent per leave type, so redelivered
// events are harmless; the message is only committed once provisioning
// succeeded, so a transient database failure leads to a redelivery instead
// of a lost ledger.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	ledger quota.Ledger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee_created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		year := provisionYear(event.JoinDate)
		if err := ledger.Provision(ctx, event.CompanyID, event.EmployeeID, year); err != nil {
			log.Error("provision leave quotas failed",
				zap.String("employee_id", event.EmployeeID),
				zap.String("company_id", event.CompanyID),
				zap.Int("year", year),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave quotas provisioned from employee_created event",
			zap.String("employee_id", event.EmployeeID),
			zap.String("company_id", event.CompanyID),
			zap.Int("year", year),
		)
	}
}

// provisionYear prefers the join date so late-replayed events still land in
// the year the employee actually joined.
func provisionYear(joinDate string) int {
	if d, err := time.Parse("2006-01-02", joinDate); err == nil {
		return d.Year()
	}
	return time.Now().UTC().Year()
}
