package repositories

import (
	"context"

	"parcel-delivery/errs"
	"parcel-delivery/models/rider"

	"gorm.io/gorm"
)

type RiderRepository struct {
	db *gorm.DB
}

func NewRiderRepository(db *gorm.DB) *RiderRepository {
	return &RiderRepository{db: db}
}

func (r *RiderRepository) Create(ctx context.Context, rd *rider.Rider) error {
	return translate(r.db.WithContext(ctx).Create(rd).Error)
}

func (r *RiderRepository) GetByID(ctx context.Context, id uint) (*rider.Rider, error) {
	var rd rider.Rider
	if err := r.db.WithContext(ctx).First(&rd, id).Error; err != nil {
		return nil, translate(err)
	}
	return &rd, nil
}

// List returns riders, optionally filtered by approval status, newest first.
func (r *RiderRepository) List(ctx context.Context, status rider.Status) ([]rider.Rider, error) {
	q := r.db.WithContext(ctx).Model(&rider.Rider{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var riders []rider.Rider
	if err := q.Order("created_at DESC").Find(&riders).Error; err != nil {
		return nil, translate(err)
	}
	return riders, nil
}

// ListAvailable returns approved riders currently free for assignment,
// optionally narrowed to a district.
func (r *RiderRepository) ListAvailable(ctx context.Context, district string) ([]rider.Rider, error) {
	q := r.db.WithContext(ctx).Model(&rider.Rider{}).
		Where("status = ? AND work_status = ?", rider.StatusApproved, rider.WorkStatusAvailable)
	if district != "" {
		q = q.Where("district = ?", district)
	}
	var riders []rider.Rider
	if err := q.Order("name ASC").Find(&riders).Error; err != nil {
		return nil, translate(err)
	}
	return riders, nil
}

func (r *RiderRepository) ListByWorkStatus(ctx context.Context, ws rider.WorkStatus) ([]rider.Rider, error) {
	var riders []rider.Rider
	err := r.db.WithContext(ctx).Where("work_status = ?", ws).Find(&riders).Error
	if err != nil {
		return nil, translate(err)
	}
	return riders, nil
}

func (r *RiderRepository) UpdateStatus(ctx context.Context, id uint, status rider.Status) error {
	res := r.db.WithContext(ctx).Model(&rider.Rider{}).Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateWorkStatus is an unconditional field update keyed by rider id.
func (r *RiderRepository) UpdateWorkStatus(ctx context.Context, id uint, ws rider.WorkStatus) error {
	res := r.db.WithContext(ctx).Model(&rider.Rider{}).Where("id = ?", id).
		Update("work_status", ws)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
