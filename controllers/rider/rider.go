package rider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"parcel-delivery/errs"
	"parcel-delivery/logger"
	parcelModel "parcel-delivery/models/parcel"
	riderModel "parcel-delivery/models/rider"
	"parcel-delivery/types"
	riderTypes "parcel-delivery/types/rider"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// RiderStore is the rider slice of the document store.
type RiderStore interface {
	Create(ctx context.Context, r *riderModel.Rider) error
	GetByID(ctx context.Context, id uint) (*riderModel.Rider, error)
	List(ctx context.Context, status riderModel.Status) ([]riderModel.Rider, error)
	ListAvailable(ctx context.Context, district string) ([]riderModel.Rider, error)
	UpdateStatus(ctx context.Context, id uint, status riderModel.Status) error
	UpdateWorkStatus(ctx context.Context, id uint, ws riderModel.WorkStatus) error
}

// ParcelCounter exposes the aggregate queries the rider dashboard needs.
type ParcelCounter interface {
	CountByRiderEmailAndStatus(ctx context.Context, email string, status parcelModel.DeliveryStatus) (int64, error)
	CountDeliveredSince(ctx context.Context, email string, since time.Time) (int64, error)
}

// RiderController handles rider onboarding, moderation and dashboards.
type RiderController struct {
	Riders  RiderStore
	Parcels ParcelCounter
	Logger  *logger.AsyncLogger
}

// NewRiderController creates a new rider controller.
func NewRiderController(riders RiderStore, parcels ParcelCounter, asyncLogger *logger.AsyncLogger) *RiderController {
	return &RiderController{
		Riders:  riders,
		Parcels: parcels,
		Logger:  asyncLogger,
	}
}

func (rc *RiderController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	if rc.Logger != nil {
		rc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	}
	return result
}

// Store registers a new rider application in pending status.
func (rc *RiderController) Store(c *fiber.Ctx) error {
	var req riderTypes.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	r := riderModel.Rider{
		Name:             req.Name,
		Email:            req.Email,
		Contact:          req.Contact,
		Age:              req.Age,
		Region:           req.Region,
		District:         req.District,
		BikeBrand:        req.BikeBrand,
		BikeRegistration: req.BikeRegistration,
		Status:           riderModel.StatusPending,
	}

	if err := rc.Riders.Create(c.UserContext(), &r); err != nil {
		if errors.Is(err, errs.ErrDuplicateTransaction) {
			return rc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "A rider with this email already exists",
				Data:    nil,
			})
		}
		logger.Error("Failed to create rider", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save rider",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Rider application created with ID: %d", r.ID))

	return rc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Rider application submitted successfully",
		Data:    r,
	})
}

// Index lists riders, optionally filtered by moderation status.
func (rc *RiderController) Index(c *fiber.Ctx) error {
	status := riderModel.Status(c.Query("status"))
	if status != "" && !status.IsValid() {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid rider status filter",
			Data:    nil,
		})
	}

	riders, err := rc.Riders.List(c.UserContext(), status)
	if err != nil {
		logger.Error("Failed to list riders", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Riders retrieved successfully",
		Data:    riders,
	})
}

// Available lists approved riders currently free to take a parcel,
// optionally narrowed to a district.
func (rc *RiderController) Available(c *fiber.Ctx) error {
	riders, err := rc.Riders.ListAvailable(c.UserContext(), c.Query("district"))
	if err != nil {
		logger.Error("Failed to list available riders", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Available riders retrieved successfully",
		Data:    riders,
	})
}

// Decide approves or rejects a pending rider application. Approval also
// opens the rider's availability window.
func (rc *RiderController) Decide(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid rider id",
			Data:    nil,
		})
	}

	var req riderTypes.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	status := riderModel.Status(req.Status)
	if err := rc.Riders.UpdateStatus(c.UserContext(), id, status); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Rider not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to update rider status", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	if status == riderModel.StatusApproved {
		if err := rc.Riders.UpdateWorkStatus(c.UserContext(), id, riderModel.WorkStatusAvailable); err != nil {
			logger.Warning(fmt.Sprintf("Rider %d approved but availability not opened: %v", id, err))
		}
	}

	logger.Success(fmt.Sprintf("Rider %d marked %s", id, status))

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Rider status updated successfully",
		Data: map[string]interface{}{
			"riderId": id,
			"status":  status,
		},
	})
}

// Stats returns the delivery counters for the authenticated rider's
// dashboard.
func (rc *RiderController) Stats(c *fiber.Ctx) error {
	email := utils.ClaimEmail(c)
	if email == "" {
		email = c.Query("email")
	}
	if email == "" {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Rider email is required",
			Data:    nil,
		})
	}

	ctx := c.UserContext()

	assigned, err := rc.Parcels.CountByRiderEmailAndStatus(ctx, email, parcelModel.DeliveryStatusDriverAssigned)
	if err != nil {
		return rc.statsError(c, err)
	}
	inTransit, err := rc.Parcels.CountByRiderEmailAndStatus(ctx, email, parcelModel.DeliveryStatusInTransit)
	if err != nil {
		return rc.statsError(c, err)
	}
	deliveredToday, err := rc.Parcels.CountDeliveredSince(ctx, email, now.BeginningOfDay())
	if err != nil {
		return rc.statsError(c, err)
	}
	deliveredThisWeek, err := rc.Parcels.CountDeliveredSince(ctx, email, now.BeginningOfWeek())
	if err != nil {
		return rc.statsError(c, err)
	}
	deliveredAllTime, err := rc.Parcels.CountDeliveredSince(ctx, email, time.Time{})
	if err != nil {
		return rc.statsError(c, err)
	}

	stats := riderTypes.Stats{
		Assigned:          assigned,
		InTransit:         inTransit,
		DeliveredToday:    deliveredToday,
		DeliveredThisWeek: deliveredThisWeek,
		DeliveredAllTime:  deliveredAllTime,
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Rider stats retrieved successfully",
		Data:    stats,
	})
}

func (rc *RiderController) statsError(c *fiber.Ctx, err error) error {
	logger.Error("Failed to compute rider stats", err)
	return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
		Status:  fiber.StatusInternalServerError,
		Message: "Internal server error",
		Data:    nil,
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", c.Params("id"))
	}
	return uint(id), nil
}
