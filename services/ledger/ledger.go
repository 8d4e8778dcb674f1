// Package ledger appends immutable status-event records for a shipment's
// tracking identifier. Every state transition goes through it.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parcel-delivery/models/tracking"
)

// EventStore is the append-only slice of the document store the writer
// needs.
type EventStore interface {
	Append(ctx context.Context, ev *tracking.Event) error
}

type Writer struct {
	store EventStore
}

func NewWriter(store EventStore) *Writer {
	return &Writer{store: store}
}

// Record appends one event for the tracking id. Repeated transitions into
// the same status append repeated lines; the ledger never deduplicates.
// Store failures surface as errs.ErrStorageUnavailable-wrapped errors.
func (w *Writer) Record(ctx context.Context, trackingID, status string) (*tracking.Event, error) {
	ev := &tracking.Event{
		TrackingID: trackingID,
		Status:     status,
		Details:    Details(status),
		CreatedAt:  time.Now(),
	}
	if err := w.store.Append(ctx, ev); err != nil {
		return nil, fmt.Errorf("record tracking event %q: %w", status, err)
	}
	return ev, nil
}

// Details derives the human-readable log line from a status label by
// replacing its separators with spaces ("pending-pickup" -> "pending
// pickup", "driver_assigned" -> "driver assigned").
func Details(status string) string {
	replaced := strings.NewReplacer("-", " ", "_", " ").Replace(status)
	return strings.Join(strings.Fields(replaced), " ")
}
