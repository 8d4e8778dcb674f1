package rider

import (
	"errors"
	"strings"

	riderModel "parcel-delivery/models/rider"
	"parcel-delivery/utils"
)

// ApplyRequest is the rider application body.
type ApplyRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Contact          string `json:"contact"`
	Age              int    `json:"age"`
	Region           string `json:"region"`
	District         string `json:"district"`
	BikeBrand        string `json:"bikeBrand"`
	BikeRegistration string `json:"bikeRegistration"`
}

func (r *ApplyRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("email is required")
	}
	if strings.TrimSpace(r.District) == "" {
		return errors.New("district is required")
	}
	if r.Contact != "" && !utils.ValidatePhoneNumber(r.Contact) {
		return errors.New("contact is not a valid phone number")
	}
	return nil
}

// DecisionRequest is the PATCH /riders/:id/status body carrying an admin
// approval decision.
type DecisionRequest struct {
	Status string `json:"status"`
}

func (r *DecisionRequest) Validate() error {
	s := riderModel.Status(r.Status)
	if s != riderModel.StatusApproved && s != riderModel.StatusRejected {
		return errors.New("status must be approved or rejected")
	}
	return nil
}

// Stats summarizes a rider's workload for the dashboard.
type Stats struct {
	Assigned          int64 `json:"assigned"`
	InTransit         int64 `json:"inTransit"`
	DeliveredToday    int64 `json:"deliveredToday"`
	DeliveredThisWeek int64 `json:"deliveredThisWeek"`
	DeliveredAllTime  int64 `json:"deliveredAllTime"`
}
