package tracking

import (
	"time"
)

// Event is one immutable, append-only record of a status transition. The
// sequence of events for a tracking id, ordered by creation time,
// reconstructs the parcel's full status history.
type Event struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// TrackingID groups events into one parcel lineage. There is no
	// uniqueness constraint on (TrackingID, Status): repeated transitions
	// into the same status produce repeated log lines.
	TrackingID string `gorm:"size:30;not null;index" json:"trackingId"`

	Status  string `gorm:"size:50;not null" json:"status"`
	Details string `gorm:"size:120"         json:"details"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName sets the table name for the Event model.
func (Event) TableName() string {
	return "tracking_events"
}
