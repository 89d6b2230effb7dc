// Package worker defines the dispatch workers that drain queued alerts
// into the downstream sink.
package worker

import (
	"context"
	"strconv"
	"time"

	"github.com/hsh723/rocket-sourcer-sub001/internal/adapters/mq/queue"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/monitor"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/logger"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 2
	workerShutdownTimeout = 5 * time.Second
)

// Alert is what workers read off the queue.
type Alert = queue.Alert

// Queue defines how workers receive alerts.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Alert
}

// Worker drains alerts and delivers them to the sink until the queue
// closes or the context is canceled.
type Worker struct {
	queue Queue
	sink  monitor.Sink
	name  string

	done chan struct{}

	logger logger.Logger
}

// NewWorker creates a dispatch worker with configuration options.
func NewWorker(q Queue, sink monitor.Sink, opts ...Option) *Worker {
	w := &Worker{
		queue:  q,
		sink:   sink,
		name:   "dispatch",
		done:   make(chan struct{}),
		logger: logger.Named("dispatch"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "dispatch" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	alerts := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case alert, ok := <-alerts:
			if !ok {
				return
			}
			w.deliver(ctx, alert)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, alert Alert) {
	if err := w.sink.Publish(ctx, []Alert{alert}); err != nil {
		metrics.RecordErrorByComponent("dispatch", "publish_error")
		w.logger.Error(ctx, "alert delivery failed",
			logger.String("alert_id", alert.ID),
			logger.String("alert_type", string(alert.Type)),
			logger.Error(err),
		)
		return
	}
	metrics.RecordAlertDelivered()
}

// Pool manages a fixed set of dispatch workers over one queue.
type Pool struct {
	workers []*Worker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a worker pool. A non-positive count falls back to the
// default worker count.
func NewPool(workerCount int, q Queue, sink monitor.Sink) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   q,
		logger:  logger.Named("dispatch-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewWorker(q, sink, WithName("dispatch-"+strconv.Itoa(i)))
	}

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing alert queue", logger.Error(err))
		}
	}

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
			p.logger.Warn(ctx, "dispatch worker shutdown timed out", logger.Int("worker_id", i))
		case <-ctx.Done():
			p.logger.Warn(ctx, "dispatch shutdown canceled", logger.Int("worker_id", i))
			return ctx.Err()
		}
	}

	return nil
}
