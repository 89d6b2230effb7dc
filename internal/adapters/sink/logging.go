// Package sink delivers alerts to their consumers. The core hands alerts
// off without an acknowledgment contract.
package sink

import (
	"context"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/monitor"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
)

// LoggingSink writes every alert to the structured log. It backs local
// runs and any deployment without a dedicated notification channel.
type LoggingSink struct {
	log logger.Logger
}

// NewLoggingSink creates a sink writing to the given logger, or to a
// named default logger when log is nil.
func NewLoggingSink(log logger.Logger) *LoggingSink {
	if log == nil {
		log = logger.Named("alerts")
	}
	return &LoggingSink{log: log}
}

// Publish implements monitor.Sink.
func (s *LoggingSink) Publish(ctx context.Context, alerts []monitor.Alert) error {
	for _, alert := range alerts {
		s.log.Info(ctx, "alert",
			logger.String("id", alert.ID),
			logger.String("type", string(alert.Type)),
			logger.String("entity_id", alert.EntityID),
			logger.String("message", alert.Message),
			logger.String("before", alert.Before),
			logger.String("after", alert.After),
			logger.Float64("change_percent", alert.ChangePercent),
		)
	}
	return nil
}
