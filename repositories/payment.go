package repositories

import (
	"context"

	"parcel-delivery/models/payment"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment record. The unique index on transaction_id makes
// a second insert for the same external transaction fail with
// errs.ErrDuplicateTransaction, so concurrent first-time reconciliations
// cannot both succeed.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// ListByParcel returns a parcel's payment records, newest first.
func (r *PaymentRepository) ListByParcel(ctx context.Context, parcelID uint) ([]payment.Payment, error) {
	var payments []payment.Payment
	err := r.db.WithContext(ctx).Where("parcel_id = ?", parcelID).
		Order("created_at DESC").Find(&payments).Error
	if err != nil {
		return nil, translate(err)
	}
	return payments, nil
}
