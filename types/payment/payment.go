package payment

import (
	"errors"
)

// CreateCheckoutSessionRequest asks the gateway for a checkout session for
// one parcel's cost.
type CreateCheckoutSessionRequest struct {
	ParcelID uint `json:"parcelId"`
}

func (r *CreateCheckoutSessionRequest) Validate() error {
	if r.ParcelID == 0 {
		return errors.New("parcelId is required")
	}
	return nil
}
