package rider

import (
	"time"
)

// Rider represents a courier with an approval status and a work-availability
// flag. Status is mutated by an admin approval decision; WorkStatus only by
// the delivery lifecycle controller.
type Rider struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"size:120;not null"        json:"name"`
	Email   string `gorm:"size:120;not null;uniqueIndex" json:"email"`
	Contact string `gorm:"size:20"                  json:"contact"`
	Age     int    `gorm:"default:0"                json:"age"`

	Region   string `gorm:"size:80;index" json:"region"`
	District string `gorm:"size:80;index" json:"district"`

	BikeBrand        string `gorm:"size:80" json:"bikeBrand"`
	BikeRegistration string `gorm:"size:50" json:"bikeRegistration"`

	Status     Status     `gorm:"size:20;not null;index" json:"status"`
	WorkStatus WorkStatus `gorm:"size:20;index"          json:"workStatus"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

type WorkStatus string

const (
	WorkStatusUnset      WorkStatus = ""
	WorkStatusAvailable  WorkStatus = "available"
	WorkStatusInDelivery WorkStatus = "in_delivery"
)
