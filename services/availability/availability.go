// Package availability keeps each rider's work status in lockstep with
// parcel transitions. Only the delivery lifecycle controller calls it.
package availability

import (
	"context"

	"parcel-delivery/models/rider"
)

// RiderStore is the slice of the document store the tracker needs.
type RiderStore interface {
	UpdateWorkStatus(ctx context.Context, riderID uint, ws rider.WorkStatus) error
}

type Tracker struct {
	store RiderStore
}

func NewTracker(store RiderStore) *Tracker {
	return &Tracker{store: store}
}

// MarkInDelivery flags the rider as occupied by an assignment. Unknown rider
// ids surface errs.ErrNotFound; the caller's parcel-side update stands
// regardless.
func (t *Tracker) MarkInDelivery(ctx context.Context, riderID uint) error {
	return t.store.UpdateWorkStatus(ctx, riderID, rider.WorkStatusInDelivery)
}

// MarkAvailable frees the rider for reassignment.
func (t *Tracker) MarkAvailable(ctx context.Context, riderID uint) error {
	return t.store.UpdateWorkStatus(ctx, riderID, rider.WorkStatusAvailable)
}
