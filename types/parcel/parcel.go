package parcel

import (
	"errors"
	"strings"
)

// CreateParcelRequest is the shipment-submission body.
type CreateParcelRequest struct {
	SenderName      string  `json:"senderName"`
	SenderEmail     string  `json:"senderEmail"`
	SenderContact   string  `json:"senderContact"`
	SenderRegion    string  `json:"senderRegion"`
	ReceiverName    string  `json:"receiverName"`
	ReceiverContact string  `json:"receiverContact"`
	ReceiverRegion  string  `json:"receiverRegion"`
	ReceiverAddress string  `json:"receiverAddress"`
	ParcelType      string  `json:"parcelType"`
	Weight          float64 `json:"weight"`
	Cost            float64 `json:"cost"`
}

func (r *CreateParcelRequest) Validate() error {
	if strings.TrimSpace(r.SenderName) == "" {
		return errors.New("senderName is required")
	}
	if strings.TrimSpace(r.SenderEmail) == "" {
		return errors.New("senderEmail is required")
	}
	if strings.TrimSpace(r.ReceiverName) == "" {
		return errors.New("receiverName is required")
	}
	if r.Cost < 0 {
		return errors.New("cost must not be negative")
	}
	return nil
}

// AssignRiderRequest is the PATCH /parcels/:id body triggering the
// assign-rider transition.
type AssignRiderRequest struct {
	RiderID    uint   `json:"riderId"`
	RiderName  string `json:"riderName"`
	RiderEmail string `json:"riderEmail"`
	TrackingID string `json:"trackingId"`
}

func (r *AssignRiderRequest) Validate() error {
	if r.RiderID == 0 {
		return errors.New("riderId is required")
	}
	if strings.TrimSpace(r.TrackingID) == "" {
		return errors.New("trackingId is required")
	}
	return nil
}

// UpdateStatusRequest is the PATCH /parcels/:id/status body triggering the
// advance-status transition.
type UpdateStatusRequest struct {
	DeliveryStatus string `json:"deliveryStatus"`
	RiderID        uint   `json:"riderId"`
	TrackingID     string `json:"trackingId"`
}

func (r *UpdateStatusRequest) Validate() error {
	if strings.TrimSpace(r.DeliveryStatus) == "" {
		return errors.New("deliveryStatus is required")
	}
	if strings.TrimSpace(r.TrackingID) == "" {
		return errors.New("trackingId is required")
	}
	return nil
}

// ParsedSlip is the structured result of address-slip extraction, shaped to
// prefill CreateParcelRequest on the front-end.
type ParsedSlip struct {
	SenderName      string `json:"senderName"`
	SenderContact   string `json:"senderContact"`
	SenderRegion    string `json:"senderRegion"`
	ReceiverName    string `json:"receiverName"`
	ReceiverContact string `json:"receiverContact"`
	ReceiverRegion  string `json:"receiverRegion"`
	ReceiverAddress string `json:"receiverAddress"`
}
