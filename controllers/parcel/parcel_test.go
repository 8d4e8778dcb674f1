package parcel_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	parcelController "parcel-delivery/controllers/parcel"
	"parcel-delivery/errs"
	parcelModel "parcel-delivery/models/parcel"
	"parcel-delivery/repositories"
	"parcel-delivery/services/lifecycle"
	"parcel-delivery/types"
	parcelTypes "parcel-delivery/types/parcel"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockParcelStore struct{ mock.Mock }

func (m *MockParcelStore) Create(ctx context.Context, p *parcelModel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelStore) GetByID(ctx context.Context, id uint) (*parcelModel.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcelModel.Parcel), args.Error(1)
}

func (m *MockParcelStore) List(ctx context.Context, f repositories.ParcelFilter) ([]parcelModel.Parcel, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]parcelModel.Parcel), args.Error(1)
}

func (m *MockParcelStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLifecycle struct{ mock.Mock }

func (m *MockLifecycle) AssignRider(ctx context.Context, in lifecycle.AssignInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockLifecycle) AdvanceStatus(ctx context.Context, in lifecycle.AdvanceInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

type MockSlipParser struct{ mock.Mock }

func (m *MockSlipParser) Parse(ctx context.Context, imageBytes []byte, mimeType string) (*parcelTypes.ParsedSlip, error) {
	args := m.Called(ctx, imageBytes, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcelTypes.ParsedSlip), args.Error(1)
}

func newApp(store *MockParcelStore, lc *MockLifecycle) *fiber.App {
	app := fiber.New()
	controller := parcelController.NewParcelController(store, lc, new(MockSlipParser), nil)
	app.Post("/parcels", controller.Store)
	app.Get("/parcels", controller.Index)
	app.Get("/parcels/rider", controller.RiderQueue)
	app.Get("/parcels/:id", controller.Show)
	app.Delete("/parcels/:id", controller.Destroy)
	app.Patch("/parcels/:id", controller.Assign)
	app.Patch("/parcels/:id/status", controller.UpdateStatus)
	return app
}

func TestStore_CreatesParcel(t *testing.T) {
	store := new(MockParcelStore)
	lc := new(MockLifecycle)

	store.On("Create", mock.Anything, mock.AnythingOfType("*parcel.Parcel")).Return(nil).Once()

	body := `{"senderName":"Rashed Khan","senderEmail":"rashed@example.com","receiverName":"Karim","cost":500}`
	req := httptest.NewRequest("POST", "/parcels", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := newApp(store, lc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	created := store.Calls[0].Arguments[1].(*parcelModel.Parcel)
	assert.Equal(t, "rashed@example.com", created.SenderEmail)
	assert.Equal(t, float64(500), created.Cost)
	assert.Equal(t, parcelModel.DeliveryStatusUnset, created.DeliveryStatus)
}

func TestStore_RejectsMissingSender(t *testing.T) {
	store := new(MockParcelStore)
	lc := new(MockLifecycle)

	body := `{"receiverName":"Karim","cost":500}`
	req := httptest.NewRequest("POST", "/parcels", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := newApp(store, lc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIndex_PassesFilters(t *testing.T) {
	store := new(MockParcelStore)
	lc := new(MockLifecycle)

	store.On("List", mock.Anything, repositories.ParcelFilter{
		SenderEmail:    "rashed@example.com",
		DeliveryStatus: "in_transit",
	}).Return([]parcelModel.Parcel{}, nil).Once()

	req := httptest.NewRequest("GET", "/parcels?email=rashed%40example.com&deliveryStatus=in_transit", nil)
	resp, err := newApp(store, lc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	store.AssertExpectations(t)
}

func TestRiderQueue_RequiresRiderEmail(t *testing.T) {
	store := new(MockParcelStore)
	lc := new(MockLifecycle)

	resp, err := newApp(store, lc).Test(httptest.NewRequest("GET", "/parcels/rider", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestRiderQueue_ExcludesDelivered(t *testing.T) {
	store := new(MockParcelStore)
	lc := new(MockLifecycle)

	store.On("List", mock.Anything, repositories.ParcelFilter{
		RiderEmail:       "rider@example.com",
		ExcludeDelivered: true,
	}).Return([]parcelModel.Parcel{}, nil).Once()

	req := httptest.NewRequest("GET", "/parcels/rider?riderEmail=rider%40example.com", nil)
	resp, err := newApp(store, lc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	store.AssertExpectations(t)
}

func TestShow_NotFound(t *testing.T) {
	store := new(MockParcelStore)
	lc := new(MockLifecycle)

	store.On("GetByID", mock.Anything, uint(99)).Return(nil, errs.ErrNotFound).Once()

	resp, err := newApp(store, lc).Test(httptest.NewRequest("GET", "/parcels/99", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAssign_TriggersLifecycle(t *testing.T) {
	store := new(MockParcelStore)
	lc := new(MockLifecycle)

	lc.On("AssignRider", mock.Anything, lifecycle.AssignInput{
		ParcelID:   7,
		RiderID:    3,
		RiderName:  "Rashed Khan",
		RiderEmail: "rashed@example.com",
		TrackingID: "2026-08-29-A1B2C3",
	}).Return(nil).Once()

	body := `{"riderId":3,"riderName":"Rashed Khan","riderEmail":"rashed@example.com","trackingId":"2026-08-29-A1B2C3"}`
	req := httptest.NewRequest("PATCH", "/parcels/7", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := newApp(store, lc).Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope types.ApiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "driver_assigned", data["deliveryStatus"])
	lc.AssertExpectations(t)
}

func TestAssign_RejectsMissingRiderID(t *testing.T) {
	store := new(MockParcelStore)
	lc := new(MockLifecycle)

	body := `{"trackingId":"2026-08-29-A1B2C3"}`
	req := httptest.NewRequest("PATCH", "/parcels/7", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := newApp(store, lc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	lc.AssertNotCalled(t, "AssignRider", mock.Anything, mock.Anything)
}

func TestUpdateStatus_IllegalTransitionIs400(t *testing.T) {
	store := new(MockParcelStore)
	lc := new(MockLifecycle)

	lc.On("AdvanceStatus", mock.Anything, mock.AnythingOfType("lifecycle.AdvanceInput")).
		Return(lifecycle.ErrIllegalTransition).Once()

	body := `{"deliveryStatus":"parcel_delivered","riderId":3,"trackingId":"T"}`
	req := httptest.NewRequest("PATCH", "/parcels/7/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := newApp(store, lc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateStatus_PartialFailureIs500(t *testing.T) {
	store := new(MockParcelStore)
	lc := new(MockLifecycle)

	lc.On("AdvanceStatus", mock.Anything, mock.AnythingOfType("lifecycle.AdvanceInput")).
		Return(&errs.PartialError{Op: "advance status", RiderErr: errs.ErrNotFound}).Once()

	body := `{"deliveryStatus":"parcel_delivered","riderId":3,"trackingId":"T"}`
	req := httptest.NewRequest("PATCH", "/parcels/7/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := newApp(store, lc).Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestDestroy_Deletes(t *testing.T) {
	store := new(MockParcelStore)
	lc := new(MockLifecycle)

	store.On("Delete", mock.Anything, uint(7)).Return(nil).Once()

	resp, err := newApp(store, lc).Test(httptest.NewRequest("DELETE", "/parcels/7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	store.AssertExpectations(t)
}
