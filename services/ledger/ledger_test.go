package ledger_test

import (
	"context"
	"testing"

	"parcel-delivery/errs"
	"parcel-delivery/models/tracking"
	"parcel-delivery/services/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventStore struct{ mock.Mock }

func (m *MockEventStore) Append(ctx context.Context, ev *tracking.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func TestRecord_AppendsEventWithDerivedDetails(t *testing.T) {
	ctx := t.Context()

	store := new(MockEventStore)
	store.On("Append", ctx, mock.AnythingOfType("*tracking.Event")).Return(nil).Once()

	w := ledger.NewWriter(store)
	ev, err := w.Record(ctx, "2026-08-29-A1B2C3", "driver_assigned")

	require.NoError(t, err)
	assert.Equal(t, "2026-08-29-A1B2C3", ev.TrackingID)
	assert.Equal(t, "driver_assigned", ev.Status)
	assert.Equal(t, "driver assigned", ev.Details)
	assert.False(t, ev.CreatedAt.IsZero())
	store.AssertExpectations(t)
}

func TestRecord_StoreFailureSurfaces(t *testing.T) {
	ctx := t.Context()

	store := new(MockEventStore)
	store.On("Append", ctx, mock.AnythingOfType("*tracking.Event")).
		Return(errs.ErrStorageUnavailable).Once()

	w := ledger.NewWriter(store)
	ev, err := w.Record(ctx, "T", "in_transit")

	require.Nil(t, ev)
	require.ErrorIs(t, err, errs.ErrStorageUnavailable)
}

func TestRecord_NeverDeduplicates(t *testing.T) {
	ctx := t.Context()

	store := new(MockEventStore)
	store.On("Append", ctx, mock.AnythingOfType("*tracking.Event")).Return(nil).Times(3)

	w := ledger.NewWriter(store)
	for i := 0; i < 3; i++ {
		_, err := w.Record(ctx, "T", "in_transit")
		require.NoError(t, err)
	}
	store.AssertExpectations(t)
}

func TestDetails(t *testing.T) {
	assert.Equal(t, "pending pickup", ledger.Details("pending-pickup"))
	assert.Equal(t, "driver assigned", ledger.Details("driver_assigned"))
	assert.Equal(t, "parcel delivered", ledger.Details("parcel_delivered"))
	assert.Equal(t, "held at depot", ledger.Details("held_at-depot"))
	assert.Equal(t, "", ledger.Details(""))
}
