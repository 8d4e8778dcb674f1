package parcel

import (
	"time"
)

// Parcel represents a shipment record tracked through its delivery lifecycle.
type Parcel struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Sender/receiver info captured on shipment submission.
	SenderName      string `gorm:"size:120;not null"  json:"senderName"`
	SenderEmail     string `gorm:"size:120;not null;index" json:"senderEmail"`
	SenderContact   string `gorm:"size:20"            json:"senderContact"`
	SenderRegion    string `gorm:"size:80"            json:"senderRegion"`
	ReceiverName    string `gorm:"size:120;not null"  json:"receiverName"`
	ReceiverContact string `gorm:"size:20"            json:"receiverContact"`
	ReceiverRegion  string `gorm:"size:80"            json:"receiverRegion"`
	ReceiverAddress string `gorm:"type:text"          json:"receiverAddress"`

	ParcelType string  `gorm:"size:50"              json:"parcelType"`
	WeightKG   float64 `gorm:"type:decimal(10,2)"   json:"weight"`
	Cost       float64 `gorm:"type:decimal(10,2)"   json:"cost"`

	PaymentStatus  PaymentStatus  `gorm:"size:20;index"  json:"paymentStatus"`
	DeliveryStatus DeliveryStatus `gorm:"size:50;index"  json:"deliveryStatus"`

	// TrackingID is assigned once, on payment, and is stable thereafter.
	TrackingID string `gorm:"size:30;index" json:"trackingId"`

	// Assigned rider reference fields, set by the assignment transition.
	RiderID    *uint  `gorm:"index"     json:"riderId"`
	RiderName  string `gorm:"size:120"  json:"riderName"`
	RiderEmail string `gorm:"size:120;index" json:"riderEmail"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Assignment carries the rider reference fields written by the
// assign-rider transition.
type Assignment struct {
	RiderID    uint
	RiderName  string
	RiderEmail string
	TrackingID string
}
