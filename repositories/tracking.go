package repositories

import (
	"context"

	"parcel-delivery/models/tracking"

	"gorm.io/gorm"
)

type TrackingRepository struct {
	db *gorm.DB
}

func NewTrackingRepository(db *gorm.DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

// Append inserts one tracking event. Events are never updated or deleted.
func (r *TrackingRepository) Append(ctx context.Context, ev *tracking.Event) error {
	return translate(r.db.WithContext(ctx).Create(ev).Error)
}

// ListByTrackingID returns the full ledger for a tracking id in the order
// the transitions were performed.
func (r *TrackingRepository) ListByTrackingID(ctx context.Context, trackingID string) ([]tracking.Event, error) {
	var events []tracking.Event
	err := r.db.WithContext(ctx).Where("tracking_id = ?", trackingID).
		Order("created_at ASC, id ASC").Find(&events).Error
	if err != nil {
		return nil, translate(err)
	}
	return events, nil
}
