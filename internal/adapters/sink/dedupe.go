package sink

import (
	"context"
	"strings"

	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/dedupe"
	"github.com/hsh723/rocket-sourcer-sub001/internal/domain/monitor"
	"github.com/hsh723/rocket-sourcer-sub001/pkg/metrics"
)

// DedupingSink suppresses alerts whose exact state transition was already
// reported, then forwards the remainder to the next sink. A fingerprint
// covers entity, alert type and the before/after values, so a fresh
// change on the same entity still fires.
type DedupingSink struct {
	next monitor.Sink
	seen dedupe.Deduper
}

// NewDedupingSink wraps next with fingerprint suppression. A nil deduper
// gets a bounded default.
func NewDedupingSink(next monitor.Sink, seen dedupe.Deduper) *DedupingSink {
	if seen == nil {
		seen = dedupe.NewInMemoryDeduper()
	}
	return &DedupingSink{next: next, seen: seen}
}

// Fingerprint returns the suppression key for an alert.
func Fingerprint(alert monitor.Alert) string {
	return strings.Join([]string{alert.EntityID, string(alert.Type), alert.Before, alert.After}, "|")
}

// Publish implements monitor.Sink.
func (s *DedupingSink) Publish(ctx context.Context, alerts []monitor.Alert) error {
	fresh := make([]monitor.Alert, 0, len(alerts))
	recorded := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		fp := Fingerprint(alert)
		if s.seen.SeenAndRecord(ctx, fp) {
			metrics.RecordAlertSuppressed()
			continue
		}
		fresh = append(fresh, alert)
		recorded = append(recorded, fp)
	}
	if len(fresh) == 0 {
		return nil
	}
	if err := s.next.Publish(ctx, fresh); err != nil {
		// Let failed alerts fire again on the next cycle.
		for _, fp := range recorded {
			s.seen.Unrecord(ctx, fp)
		}
		return err
	}
	return nil
}
