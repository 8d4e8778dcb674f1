// Package lifecycle orchestrates delivery-status transitions. Each
// transition couples a parcel write with rider bookkeeping and a ledger
// entry; the parcel record stays authoritative even when the paired writes
// fail.
package lifecycle

import (
	"context"
	"errors"

	"parcel-delivery/errs"
	"parcel-delivery/models/parcel"
	"parcel-delivery/models/tracking"
)

// ErrIllegalTransition is returned in strict mode when the requested status
// is not a legal successor of the parcel's current status.
var ErrIllegalTransition = errors.New("illegal delivery status transition")

// ParcelStore is the parcel slice of the document store the controller
// needs.
type ParcelStore interface {
	GetByID(ctx context.Context, id uint) (*parcel.Parcel, error)
	UpdateAssignment(ctx context.Context, id uint, a parcel.Assignment) error
	UpdateStatus(ctx context.Context, id uint, status parcel.DeliveryStatus) error
}

// RiderTracker mutates rider availability in lockstep with parcel
// transitions.
type RiderTracker interface {
	MarkInDelivery(ctx context.Context, riderID uint) error
	MarkAvailable(ctx context.Context, riderID uint) error
}

// LedgerWriter appends one immutable event per transition.
type LedgerWriter interface {
	Record(ctx context.Context, trackingID, status string) (*tracking.Event, error)
}

// Stores bundles the three collaborators of a transition so a TxRunner can
// swap in transaction-scoped instances.
type Stores struct {
	Parcels ParcelStore
	Riders  RiderTracker
	Ledger  LedgerWriter
}

// TxRunner executes a transition against a consistent view of the store.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(s Stores) error) error
}

// Options toggle the stricter behaviors. Both default off: transitions are
// advisory and best-effort unless configured otherwise.
type Options struct {
	// StrictTransitions validates transitions against the legal-predecessor
	// table and rejects out-of-order jumps.
	StrictTransitions bool

	// Transactional wraps each transition in a store-level transaction with
	// fail-fast semantics instead of best-effort sequential writes.
	Transactional bool
}

type AssignInput struct {
	ParcelID   uint
	RiderID    uint
	RiderName  string
	RiderEmail string
	TrackingID string
}

type AdvanceInput struct {
	ParcelID   uint
	Status     string
	RiderID    uint
	TrackingID string
}

type Controller struct {
	stores Stores
	runner TxRunner
	opts   Options
}

// passThrough runs a transition directly against the live stores, keeping
// the source's best-effort sequential-write semantics.
type passThrough struct {
	stores Stores
}

func (r passThrough) RunInTransaction(_ context.Context, fn func(s Stores) error) error {
	return fn(r.stores)
}

func NewController(stores Stores, runner TxRunner, opts Options) *Controller {
	if runner == nil {
		runner = passThrough{stores: stores}
	}
	return &Controller{stores: stores, runner: runner, opts: opts}
}

// AssignRider moves a parcel into driver_assigned, writes the rider
// reference fields, flags the rider in_delivery and appends the
// driver_assigned ledger event. In best-effort mode all three sub-writes are
// attempted even when an earlier one fails; the failures aggregate into an
// errs.PartialError.
func (c *Controller) AssignRider(ctx context.Context, in AssignInput) error {
	if c.opts.StrictTransitions {
		p, err := c.stores.Parcels.GetByID(ctx, in.ParcelID)
		if err != nil {
			return err
		}
		if !p.DeliveryStatus.CanTransitionTo(parcel.DeliveryStatusDriverAssigned) {
			return ErrIllegalTransition
		}
	}

	if c.opts.Transactional {
		return c.runner.RunInTransaction(ctx, func(s Stores) error {
			return assign(ctx, s, in, true)
		})
	}
	return assign(ctx, c.stores, in, false)
}

// AdvanceStatus sets the caller-declared status. Reaching the terminal
// delivered status additionally frees the rider; every advance appends a
// ledger event unconditionally.
func (c *Controller) AdvanceStatus(ctx context.Context, in AdvanceInput) error {
	next := parcel.DeliveryStatus(in.Status)

	if c.opts.StrictTransitions {
		p, err := c.stores.Parcels.GetByID(ctx, in.ParcelID)
		if err != nil {
			return err
		}
		if !p.DeliveryStatus.CanTransitionTo(next) {
			return ErrIllegalTransition
		}
	}

	if c.opts.Transactional {
		return c.runner.RunInTransaction(ctx, func(s Stores) error {
			return advance(ctx, s, in, true)
		})
	}
	return advance(ctx, c.stores, in, false)
}

func assign(ctx context.Context, s Stores, in AssignInput, failFast bool) error {
	pe := &errs.PartialError{Op: "assign rider"}

	pe.ParcelErr = s.Parcels.UpdateAssignment(ctx, in.ParcelID, parcel.Assignment{
		RiderID:    in.RiderID,
		RiderName:  in.RiderName,
		RiderEmail: in.RiderEmail,
		TrackingID: in.TrackingID,
	})
	if failFast && pe.ParcelErr != nil {
		return pe.ParcelErr
	}

	pe.RiderErr = s.Riders.MarkInDelivery(ctx, in.RiderID)
	if failFast && pe.RiderErr != nil {
		return pe.RiderErr
	}

	if _, err := s.Ledger.Record(ctx, in.TrackingID, parcel.DeliveryStatusDriverAssigned.String()); err != nil {
		pe.LedgerErr = err
		if failFast {
			return err
		}
	}

	if pe.Any() {
		return pe
	}
	return nil
}

func advance(ctx context.Context, s Stores, in AdvanceInput, failFast bool) error {
	pe := &errs.PartialError{Op: "advance status"}
	next := parcel.DeliveryStatus(in.Status)

	pe.ParcelErr = s.Parcels.UpdateStatus(ctx, in.ParcelID, next)
	if failFast && pe.ParcelErr != nil {
		return pe.ParcelErr
	}

	// The delivered transition is the only path that resets a rider's work
	// status.
	if next.IsTerminal() && in.RiderID != 0 {
		pe.RiderErr = s.Riders.MarkAvailable(ctx, in.RiderID)
		if failFast && pe.RiderErr != nil {
			return pe.RiderErr
		}
	}

	if _, err := s.Ledger.Record(ctx, in.TrackingID, in.Status); err != nil {
		pe.LedgerErr = err
		if failFast {
			return err
		}
	}

	if pe.Any() {
		return pe
	}
	return nil
}
