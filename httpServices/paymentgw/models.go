package paymentgw

import (
	"fmt"
	"strconv"
)

// PaymentStatusPaid is the session status the reconciliation unit accepts.
const PaymentStatusPaid = "paid"

// CreateSessionRequest asks the provider for a hosted checkout session.
type CreateSessionRequest struct {
	Amount        float64           `json:"amount"`
	Currency      string            `json:"currency"`
	ProductName   string            `json:"product_name"`
	CustomerEmail string            `json:"customer_email"`
	SuccessURL    string            `json:"success_url"`
	CancelURL     string            `json:"cancel_url"`
	Metadata      map[string]string `json:"metadata"`
}

// CreateSessionResponse carries the redirect target for the front-end.
type CreateSessionResponse struct {
	SessionID string `json:"id"`
	URL       string `json:"url"`
}

// CheckoutSession is the provider's view of a completed (or abandoned)
// checkout, retrieved by session id.
type CheckoutSession struct {
	ID            string            `json:"id"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   float64           `json:"amount_total"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email"`
	TransactionID string            `json:"transaction_id"`
	Metadata      map[string]string `json:"metadata"`
}

// ParcelID resolves the parcel the session was created for, carried through
// the provider in session metadata.
func (s *CheckoutSession) ParcelID() (uint, error) {
	raw, ok := s.Metadata["parcelId"]
	if !ok || raw == "" {
		return 0, fmt.Errorf("session %s carries no parcel reference", s.ID)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("session %s carries invalid parcel reference %q", s.ID, raw)
	}
	return uint(id), nil
}
