package jobs

import (
	"context"
	"fmt"
	"time"

	"parcel-delivery/logger"
	riderModel "parcel-delivery/models/rider"
)

// RiderStore is the rider slice the sweeper needs.
type RiderStore interface {
	ListByWorkStatus(ctx context.Context, ws riderModel.WorkStatus) ([]riderModel.Rider, error)
	UpdateWorkStatus(ctx context.Context, id uint, ws riderModel.WorkStatus) error
}

// ParcelCounter counts a rider's parcels still in flight.
type ParcelCounter interface {
	CountActiveByRider(ctx context.Context, riderID uint) (int64, error)
}

// AvailabilitySweeper releases riders stuck in in_delivery whose parcels
// have all reached the terminal status. Transitions are best-effort, so a
// failed rider-side update during delivery completion leaves this drift;
// the sweep is the automated reconciliation.
type AvailabilitySweeper struct {
	Riders  RiderStore
	Parcels ParcelCounter
	Timeout time.Duration
}

// NewAvailabilitySweeper creates a sweeper with a 30s per-run budget.
func NewAvailabilitySweeper(riders RiderStore, parcels ParcelCounter) *AvailabilitySweeper {
	return &AvailabilitySweeper{
		Riders:  riders,
		Parcels: parcels,
		Timeout: 30 * time.Second,
	}
}

// Run executes one sweep pass.
func (s *AvailabilitySweeper) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	if err := s.Sweep(ctx); err != nil {
		logger.Error("Availability sweep failed", err)
	}
}

// Sweep frees every in_delivery rider with no active parcel left.
func (s *AvailabilitySweeper) Sweep(ctx context.Context) error {
	riders, err := s.Riders.ListByWorkStatus(ctx, riderModel.WorkStatusInDelivery)
	if err != nil {
		return err
	}

	freed := 0
	for _, r := range riders {
		active, err := s.Parcels.CountActiveByRider(ctx, r.ID)
		if err != nil {
			logger.Warning(fmt.Sprintf("Sweep skipped rider %d: %v", r.ID, err))
			continue
		}
		if active > 0 {
			continue
		}
		if err := s.Riders.UpdateWorkStatus(ctx, r.ID, riderModel.WorkStatusAvailable); err != nil {
			logger.Warning(fmt.Sprintf("Sweep could not free rider %d: %v", r.ID, err))
			continue
		}
		freed++
	}

	if freed > 0 {
		logger.Success(fmt.Sprintf("Availability sweep freed %d rider(s)", freed))
	}
	return nil
}
