package reconcile_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"parcel-delivery/errs"
	"parcel-delivery/httpServices/paymentgw"
	"parcel-delivery/models/parcel"
	"parcel-delivery/models/payment"
	"parcel-delivery/models/tracking"
	"parcel-delivery/services/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGateway struct{ mock.Mock }

func (m *MockGateway) RetrieveSession(ctx context.Context, sessionID string) (*paymentgw.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgw.CheckoutSession), args.Error(1)
}

type MockParcelStore struct{ mock.Mock }

func (m *MockParcelStore) GetByID(ctx context.Context, id uint) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelStore) MarkPaid(ctx context.Context, id uint, trackingID string) error {
	args := m.Called(ctx, id, trackingID)
	return args.Error(0)
}

type MockPaymentStore struct{ mock.Mock }

func (m *MockPaymentStore) GetByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockLedgerWriter struct{ mock.Mock }

func (m *MockLedgerWriter) Record(ctx context.Context, trackingID, status string) (*tracking.Event, error) {
	args := m.Called(ctx, trackingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tracking.Event), args.Error(1)
}

var trackingIDPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-[0-9A-F]{6}$`)

func paidSession() *paymentgw.CheckoutSession {
	return &paymentgw.CheckoutSession{
		ID:            "cs_test_1",
		PaymentStatus: "paid",
		AmountTotal:   500,
		Currency:      "bdt",
		CustomerEmail: "sender@example.com",
		TransactionID: "txn_001",
		Metadata:      map[string]string{"parcelId": "42"},
	}
}

func TestReconcile_Success(t *testing.T) {
	ctx := t.Context()

	gateway := new(MockGateway)
	parcels := new(MockParcelStore)
	payments := new(MockPaymentStore)
	ledger := new(MockLedgerWriter)

	gateway.On("RetrieveSession", ctx, "cs_test_1").Return(paidSession(), nil).Once()
	payments.On("GetByTransactionID", ctx, "txn_001").Return(nil, errs.ErrNotFound).Once()
	parcels.On("GetByID", ctx, uint(42)).Return(&parcel.Parcel{ID: 42, Cost: 500}, nil).Once()
	payments.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil).Once()
	parcels.On("MarkPaid", ctx, uint(42), mock.AnythingOfType("string")).Return(nil).Once()
	ledger.On("Record", ctx, mock.AnythingOfType("string"), "pending-pickup").
		Return(&tracking.Event{}, nil).Once()

	unit := reconcile.NewUnit(gateway, parcels, payments, ledger)
	res, err := unit.Reconcile(ctx, "cs_test_1")

	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeSuccess, res.Outcome)
	assert.Equal(t, uint(42), res.ParcelID)
	assert.Equal(t, "txn_001", res.TransactionID)
	assert.True(t, res.ParcelUpdated)
	assert.NoError(t, res.LedgerErr)
	assert.Regexp(t, trackingIDPattern, res.TrackingID)

	require.NotNil(t, res.Payment)
	assert.Equal(t, "txn_001", res.Payment.TransactionID)
	assert.Equal(t, float64(500), res.Payment.Amount)
	assert.Equal(t, res.TrackingID, res.Payment.TrackingID)
	assert.NotEmpty(t, res.Payment.PublicID)

	gateway.AssertExpectations(t)
	parcels.AssertExpectations(t)
	payments.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestReconcile_DuplicateTransactionID(t *testing.T) {
	ctx := t.Context()

	gateway := new(MockGateway)
	parcels := new(MockParcelStore)
	payments := new(MockPaymentStore)
	ledger := new(MockLedgerWriter)

	prior := &payment.Payment{
		ParcelID:      42,
		TransactionID: "txn_001",
		TrackingID:    "2026-08-29-ABCDEF",
	}

	gateway.On("RetrieveSession", ctx, "cs_test_1").Return(paidSession(), nil).Once()
	payments.On("GetByTransactionID", ctx, "txn_001").Return(prior, nil).Once()

	unit := reconcile.NewUnit(gateway, parcels, payments, ledger)
	res, err := unit.Reconcile(ctx, "cs_test_1")

	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeDuplicate, res.Outcome)
	assert.Equal(t, "2026-08-29-ABCDEF", res.TrackingID)
	assert.Equal(t, "txn_001", res.TransactionID)

	// No writes on the duplicate path.
	payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	parcels.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_InsertRaceYieldsDuplicate(t *testing.T) {
	ctx := t.Context()

	gateway := new(MockGateway)
	parcels := new(MockParcelStore)
	payments := new(MockPaymentStore)
	ledger := new(MockLedgerWriter)

	winner := &payment.Payment{
		ParcelID:      42,
		TransactionID: "txn_001",
		TrackingID:    "2026-08-29-ABCDEF",
	}

	mock.InOrder(
		gateway.On("RetrieveSession", ctx, "cs_test_1").Return(paidSession(), nil).Once(),
		payments.On("GetByTransactionID", ctx, "txn_001").Return(nil, errs.ErrNotFound).Once(),
		parcels.On("GetByID", ctx, uint(42)).Return(&parcel.Parcel{ID: 42}, nil).Once(),
		payments.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).
			Return(errs.ErrDuplicateTransaction).Once(),
		payments.On("GetByTransactionID", ctx, "txn_001").Return(winner, nil).Once(),
	)

	unit := reconcile.NewUnit(gateway, parcels, payments, ledger)
	res, err := unit.Reconcile(ctx, "cs_test_1")

	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeDuplicate, res.Outcome)
	assert.Equal(t, "2026-08-29-ABCDEF", res.TrackingID)
	parcels.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_NotPaid(t *testing.T) {
	ctx := t.Context()

	gateway := new(MockGateway)
	parcels := new(MockParcelStore)
	payments := new(MockPaymentStore)
	ledger := new(MockLedgerWriter)

	session := paidSession()
	session.PaymentStatus = "unpaid"

	gateway.On("RetrieveSession", ctx, "cs_test_1").Return(session, nil).Once()
	payments.On("GetByTransactionID", ctx, "txn_001").Return(nil, errs.ErrNotFound).Once()

	unit := reconcile.NewUnit(gateway, parcels, payments, ledger)
	res, err := unit.Reconcile(ctx, "cs_test_1")

	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeNotPaid, res.Outcome)
	parcels.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReconcile_ProviderUnavailable(t *testing.T) {
	ctx := t.Context()

	gateway := new(MockGateway)
	parcels := new(MockParcelStore)
	payments := new(MockPaymentStore)
	ledger := new(MockLedgerWriter)

	gateway.On("RetrieveSession", ctx, "cs_test_1").
		Return(nil, errors.New("connection refused")).Once()

	unit := reconcile.NewUnit(gateway, parcels, payments, ledger)
	res, err := unit.Reconcile(ctx, "cs_test_1")

	require.Nil(t, res)
	require.ErrorIs(t, err, errs.ErrProviderUnavailable)
	payments.AssertNotCalled(t, "GetByTransactionID", mock.Anything, mock.Anything)
}

func TestReconcile_ParcelUpdateFailureIsPartial(t *testing.T) {
	ctx := t.Context()

	gateway := new(MockGateway)
	parcels := new(MockParcelStore)
	payments := new(MockPaymentStore)
	ledger := new(MockLedgerWriter)

	gateway.On("RetrieveSession", ctx, "cs_test_1").Return(paidSession(), nil).Once()
	payments.On("GetByTransactionID", ctx, "txn_001").Return(nil, errs.ErrNotFound).Once()
	parcels.On("GetByID", ctx, uint(42)).Return(&parcel.Parcel{ID: 42}, nil).Once()
	payments.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil).Once()
	parcels.On("MarkPaid", ctx, uint(42), mock.AnythingOfType("string")).
		Return(errs.ErrStorageUnavailable).Once()

	unit := reconcile.NewUnit(gateway, parcels, payments, ledger)
	res, err := unit.Reconcile(ctx, "cs_test_1")

	require.Error(t, err)
	var pe *errs.PartialError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, pe.ParcelErr, errs.ErrStorageUnavailable)

	// The payment record stands even though the parcel was not updated.
	require.NotNil(t, res)
	assert.False(t, res.ParcelUpdated)
	assert.NotNil(t, res.Payment)
	ledger.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcile_LedgerFailureDoesNotFail(t *testing.T) {
	ctx := t.Context()

	gateway := new(MockGateway)
	parcels := new(MockParcelStore)
	payments := new(MockPaymentStore)
	ledger := new(MockLedgerWriter)

	gateway.On("RetrieveSession", ctx, "cs_test_1").Return(paidSession(), nil).Once()
	payments.On("GetByTransactionID", ctx, "txn_001").Return(nil, errs.ErrNotFound).Once()
	parcels.On("GetByID", ctx, uint(42)).Return(&parcel.Parcel{ID: 42}, nil).Once()
	payments.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil).Once()
	parcels.On("MarkPaid", ctx, uint(42), mock.AnythingOfType("string")).Return(nil).Once()
	ledger.On("Record", ctx, mock.AnythingOfType("string"), "pending-pickup").
		Return(nil, errs.ErrStorageUnavailable).Once()

	unit := reconcile.NewUnit(gateway, parcels, payments, ledger)
	res, err := unit.Reconcile(ctx, "cs_test_1")

	require.NoError(t, err)
	assert.Equal(t, reconcile.OutcomeSuccess, res.Outcome)
	assert.True(t, res.ParcelUpdated)
	assert.ErrorIs(t, res.LedgerErr, errs.ErrStorageUnavailable)
}

func TestReconcile_ReusesExistingTrackingID(t *testing.T) {
	ctx := t.Context()

	gateway := new(MockGateway)
	parcels := new(MockParcelStore)
	payments := new(MockPaymentStore)
	ledger := new(MockLedgerWriter)

	gateway.On("RetrieveSession", ctx, "cs_test_1").Return(paidSession(), nil).Once()
	payments.On("GetByTransactionID", ctx, "txn_001").Return(nil, errs.ErrNotFound).Once()
	parcels.On("GetByID", ctx, uint(42)).
		Return(&parcel.Parcel{ID: 42, TrackingID: "2026-08-01-111111"}, nil).Once()
	payments.On("Create", ctx, mock.AnythingOfType("*payment.Payment")).Return(nil).Once()
	parcels.On("MarkPaid", ctx, uint(42), "2026-08-01-111111").Return(nil).Once()
	ledger.On("Record", ctx, "2026-08-01-111111", "pending-pickup").
		Return(&tracking.Event{}, nil).Once()

	unit := reconcile.NewUnit(gateway, parcels, payments, ledger)
	res, err := unit.Reconcile(ctx, "cs_test_1")

	require.NoError(t, err)
	assert.Equal(t, "2026-08-01-111111", res.TrackingID)
	parcels.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestReconcile_SessionWithoutParcelReference(t *testing.T) {
	ctx := t.Context()

	gateway := new(MockGateway)
	parcels := new(MockParcelStore)
	payments := new(MockPaymentStore)
	ledger := new(MockLedgerWriter)

	session := paidSession()
	session.Metadata = map[string]string{}

	gateway.On("RetrieveSession", ctx, "cs_test_1").Return(session, nil).Once()
	payments.On("GetByTransactionID", ctx, "txn_001").Return(nil, errs.ErrNotFound).Once()

	unit := reconcile.NewUnit(gateway, parcels, payments, ledger)
	res, err := unit.Reconcile(ctx, "cs_test_1")

	require.Nil(t, res)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
