package sink

import (
	"context"

	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/mq/queue"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/monitor"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
)

// AsyncSink hands alerts to the dispatch queue so the monitoring cycle
// never blocks on downstream delivery. Alerts that do not fit are
// dropped, the queue records them.
type AsyncSink struct {
	queue queue.Queue
	log   logger.Logger
}

// NewAsyncSink creates a sink enqueueing into q.
func NewAsyncSink(q queue.Queue, log logger.Logger) *AsyncSink {
	if log == nil {
		log = logger.Named("alerts")
	}
	return &AsyncSink{queue: q, log: log}
}

// Publish implements monitor.Sink.
func (s *AsyncSink) Publish(ctx context.Context, alerts []monitor.Alert) error {
	for _, alert := range alerts {
		if !s.queue.Enqueue(ctx, alert) {
			s.log.Warn(ctx, "alert dropped, dispatch queue full",
				logger.String("id", alert.ID),
				logger.String("type", string(alert.Type)),
				logger.String("entity_id", alert.EntityID),
			)
		}
	}
	return nil
}
