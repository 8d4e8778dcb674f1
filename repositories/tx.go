package repositories

import (
	"context"

	"parcel-delivery/services/availability"
	"parcel-delivery/services/ledger"
	"parcel-delivery/services/lifecycle"

	"gorm.io/gorm"
)

// TxRunner executes a lifecycle transition inside one database transaction,
// handing the callback stores bound to the transaction handle. Used when
// TRANSACTIONAL_TRANSITIONS is enabled; the default mode never goes through
// it.
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) RunInTransaction(ctx context.Context, fn func(s lifecycle.Stores) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(lifecycle.Stores{
			Parcels: NewParcelRepository(tx),
			Riders:  availability.NewTracker(NewRiderRepository(tx)),
			Ledger:  ledger.NewWriter(NewTrackingRepository(tx)),
		})
	})
}
