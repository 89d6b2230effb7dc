// Package queue defines the contract for buffering alerts between the
// monitoring engine and downstream delivery.
//
// Implementations may use channels or more advanced structures. The
// default is an in-memory bounded queue.
package queue

import (
	"context"
	"sync"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/monitor"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 1024
)

// Alert is the payload type flowing through the queue.
type Alert = monitor.Alert

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an alert to the queue.
	// Returns false if the queue is full or closed and the alert was dropped.
	Enqueue(ctx context.Context, a Alert) bool

	// Dequeue returns a channel that receives alerts as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Alert

	// Len returns the current number of queued alerts.
	Len(ctx context.Context) int

	// Close stops the queue. After closing, no new alerts can be
	// enqueued and the dequeue channel drains then closes.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	alerts   chan Alert
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.alerts = make(chan Alert, q.capacity)

	metrics.UpdateAlertQueueCapacity(q.capacity)
	metrics.UpdateAlertQueueSize(0)

	return q
}

// Enqueue adds an alert to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, a Alert) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordAlertDropped()
		metrics.RecordErrorByComponent("alert_queue", "closed")
		return false
	}

	select {
	case q.alerts <- a:
		metrics.RecordAlertEnqueued()
		metrics.UpdateAlertQueueSize(len(q.alerts))
		return true
	case <-ctx.Done():
		metrics.RecordAlertDropped()
		metrics.RecordErrorByComponent("alert_queue", "context_cancelled")
		return false
	default:
		metrics.RecordAlertDropped()
		metrics.RecordErrorByComponent("alert_queue", "queue_full")
		return false
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Alert {
	return q.alerts
}

// Len returns the current number of queued alerts.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.alerts)
	metrics.UpdateAlertQueueSize(size)
	return size
}

// Close stops the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.alerts)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
