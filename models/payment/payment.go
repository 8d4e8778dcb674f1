package payment

import (
	"time"
)

// Payment records one reconciled checkout. Immutable once created; the
// unique index on TransactionID enforces at-most-once reconciliation at the
// store level.
type Payment struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PublicID string `gorm:"size:36;uniqueIndex"      json:"publicId"`

	ParcelID uint `gorm:"not null;index" json:"parcelId"`

	Amount   float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency string  `gorm:"size:10;not null"            json:"currency"`
	Email    string  `gorm:"size:120;index"              json:"email"`

	TransactionID string `gorm:"size:120;not null;uniqueIndex" json:"transactionId"`
	TrackingID    string `gorm:"size:30;index"                 json:"trackingId"`

	PaidAt    time.Time `gorm:"not null"       json:"paidAt"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
