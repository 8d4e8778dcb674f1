// Package reconcile consumes a completed external checkout exactly once:
// it marks the parcel paid, assigns the tracking identifier, persists the
// payment record and emits the first ledger event.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcel-delivery/errs"
	"parcel-delivery/httpServices/paymentgw"
	"parcel-delivery/models/parcel"
	"parcel-delivery/models/payment"
	"parcel-delivery/models/tracking"
	"parcel-delivery/utils"

	"github.com/google/uuid"
)

// Gateway resolves an external checkout session.
type Gateway interface {
	RetrieveSession(ctx context.Context, sessionID string) (*paymentgw.CheckoutSession, error)
}

type ParcelStore interface {
	GetByID(ctx context.Context, id uint) (*parcel.Parcel, error)
	MarkPaid(ctx context.Context, id uint, trackingID string) error
}

type PaymentStore interface {
	GetByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error)
	Create(ctx context.Context, p *payment.Payment) error
}

type LedgerWriter interface {
	Record(ctx context.Context, trackingID, status string) (*tracking.Event, error)
}

type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeNotPaid   Outcome = "not-paid"
)

// Result reports what reconciliation did. LedgerErr is non-nil when the
// first tracking event could not be appended; the payment and parcel writes
// stand regardless and callers surface the ledger failure separately.
type Result struct {
	Outcome       Outcome
	ParcelID      uint
	TrackingID    string
	TransactionID string
	Payment       *payment.Payment
	ParcelUpdated bool
	LedgerErr     error
}

type Unit struct {
	gateway  Gateway
	parcels  ParcelStore
	payments PaymentStore
	ledger   LedgerWriter
}

func NewUnit(gateway Gateway, parcels ParcelStore, payments PaymentStore, ledger LedgerWriter) *Unit {
	return &Unit{gateway: gateway, parcels: parcels, payments: payments, ledger: ledger}
}

// Reconcile applies a checkout confirmation at most once, keyed by the
// provider's transaction id. A repeat call returns the previously generated
// tracking id and the duplicate outcome without writing anything.
func (u *Unit) Reconcile(ctx context.Context, sessionID string) (*Result, error) {
	session, err := u.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrProviderUnavailable, err)
	}

	existing, err := u.payments.GetByTransactionID(ctx, session.TransactionID)
	if err == nil {
		return duplicateResult(existing), nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	if session.PaymentStatus != paymentgw.PaymentStatusPaid {
		return &Result{Outcome: OutcomeNotPaid, TransactionID: session.TransactionID}, nil
	}

	parcelID, err := session.ParcelID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrNotFound, err)
	}

	p, err := u.parcels.GetByID(ctx, parcelID)
	if err != nil {
		return nil, err
	}

	// A tracking id is assigned at most once per parcel; reuse it when a
	// prior reconciliation already set one.
	trackingID := p.TrackingID
	if trackingID == "" {
		trackingID = utils.NewTrackingID()
	}

	pay := &payment.Payment{
		PublicID:      uuid.NewString(),
		ParcelID:      p.ID,
		Amount:        session.AmountTotal,
		Currency:      session.Currency,
		Email:         session.CustomerEmail,
		TransactionID: session.TransactionID,
		TrackingID:    trackingID,
		PaidAt:        time.Now(),
	}
	if err := u.payments.Create(ctx, pay); err != nil {
		// The unique transaction-id index lost us a race: some other call
		// reconciled first. Report its outcome instead of failing.
		if errors.Is(err, errs.ErrDuplicateTransaction) {
			if winner, gerr := u.payments.GetByTransactionID(ctx, session.TransactionID); gerr == nil {
				return duplicateResult(winner), nil
			}
			return &Result{
				Outcome:       OutcomeDuplicate,
				ParcelID:      p.ID,
				TrackingID:    trackingID,
				TransactionID: session.TransactionID,
			}, nil
		}
		return nil, err
	}

	res := &Result{
		Outcome:       OutcomeSuccess,
		ParcelID:      p.ID,
		TrackingID:    trackingID,
		TransactionID: session.TransactionID,
		Payment:       pay,
	}

	// No rollback on parcel failure: the payment record already exists and
	// an operator reconciles the parcel out-of-band.
	if err := u.parcels.MarkPaid(ctx, p.ID, trackingID); err != nil {
		return res, &errs.PartialError{Op: "payment reconciliation", ParcelErr: err}
	}
	res.ParcelUpdated = true

	if _, err := u.ledger.Record(ctx, trackingID, parcel.DeliveryStatusPendingPickup.String()); err != nil {
		res.LedgerErr = err
	}

	return res, nil
}

func duplicateResult(p *payment.Payment) *Result {
	return &Result{
		Outcome:       OutcomeDuplicate,
		ParcelID:      p.ParcelID,
		TrackingID:    p.TrackingID,
		TransactionID: p.TransactionID,
		Payment:       p,
	}
}
