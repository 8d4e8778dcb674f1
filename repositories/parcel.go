package repositories

import (
	"context"
	"time"

	"parcel-delivery/errs"
	"parcel-delivery/models/parcel"

	"gorm.io/gorm"
)

// ParcelFilter narrows parcel listings. Zero values mean "no filter".
type ParcelFilter struct {
	SenderEmail    string
	RiderEmail     string
	DeliveryStatus string

	// ExcludeDelivered drops terminal parcels from a rider's active queue
	// unless a status filter asks for them explicitly.
	ExcludeDelivered bool
}

type ParcelRepository struct {
	db *gorm.DB
}

func NewParcelRepository(db *gorm.DB) *ParcelRepository {
	return &ParcelRepository{db: db}
}

func (r *ParcelRepository) Create(ctx context.Context, p *parcel.Parcel) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *ParcelRepository) GetByID(ctx context.Context, id uint) (*parcel.Parcel, error) {
	var p parcel.Parcel
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// List returns parcels matching the filter, newest first.
func (r *ParcelRepository) List(ctx context.Context, f ParcelFilter) ([]parcel.Parcel, error) {
	q := r.db.WithContext(ctx).Model(&parcel.Parcel{})
	if f.SenderEmail != "" {
		q = q.Where("sender_email = ?", f.SenderEmail)
	}
	if f.RiderEmail != "" {
		q = q.Where("rider_email = ?", f.RiderEmail)
	}
	if f.DeliveryStatus != "" {
		q = q.Where("delivery_status = ?", f.DeliveryStatus)
	} else if f.ExcludeDelivered {
		q = q.Where("delivery_status <> ?", parcel.DeliveryStatusDelivered)
	}

	var parcels []parcel.Parcel
	if err := q.Order("created_at DESC").Find(&parcels).Error; err != nil {
		return nil, translate(err)
	}
	return parcels, nil
}

func (r *ParcelRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&parcel.Parcel{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// MarkPaid applies the entry transition: payment confirmed, parcel waiting
// for pickup, tracking id set. Callers pass the parcel's existing tracking
// id when one was already assigned, keeping it stable.
func (r *ParcelRepository) MarkPaid(ctx context.Context, id uint, trackingID string) error {
	res := r.db.WithContext(ctx).Model(&parcel.Parcel{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status":  parcel.PaymentStatusPaid,
			"delivery_status": parcel.DeliveryStatusPendingPickup,
			"tracking_id":     trackingID,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateAssignment writes the rider reference fields and moves the parcel
// into driver_assigned.
func (r *ParcelRepository) UpdateAssignment(ctx context.Context, id uint, a parcel.Assignment) error {
	res := r.db.WithContext(ctx).Model(&parcel.Parcel{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"delivery_status": parcel.DeliveryStatusDriverAssigned,
			"rider_id":        a.RiderID,
			"rider_name":      a.RiderName,
			"rider_email":     a.RiderEmail,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *ParcelRepository) UpdateStatus(ctx context.Context, id uint, status parcel.DeliveryStatus) error {
	res := r.db.WithContext(ctx).Model(&parcel.Parcel{}).Where("id = ?", id).
		Update("delivery_status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// CountActiveByRider counts non-delivered parcels referencing the rider as
// assignee. Used by the availability sweeper.
func (r *ParcelRepository) CountActiveByRider(ctx context.Context, riderID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&parcel.Parcel{}).
		Where("rider_id = ? AND delivery_status <> ?", riderID, parcel.DeliveryStatusDelivered).
		Count(&n).Error
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *ParcelRepository) CountByRiderEmailAndStatus(ctx context.Context, riderEmail string, status parcel.DeliveryStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&parcel.Parcel{}).
		Where("rider_email = ? AND delivery_status = ?", riderEmail, status).
		Count(&n).Error
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// CountDeliveredSince counts parcels the rider completed at or after the
// given instant.
func (r *ParcelRepository) CountDeliveredSince(ctx context.Context, riderEmail string, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&parcel.Parcel{}).
		Where("rider_email = ? AND delivery_status = ? AND updated_at >= ?",
			riderEmail, parcel.DeliveryStatusDelivered, since).
		Count(&n).Error
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}
