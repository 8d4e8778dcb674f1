package parcel

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"parcel-delivery/errs"
	"parcel-delivery/logger"
	parcelModel "parcel-delivery/models/parcel"
	"parcel-delivery/repositories"
	"parcel-delivery/services/lifecycle"
	"parcel-delivery/types"
	parcelTypes "parcel-delivery/types/parcel"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
)

// ParcelStore is the parcel slice of the document store the controller
// needs for single-document CRUD.
type ParcelStore interface {
	Create(ctx context.Context, p *parcelModel.Parcel) error
	GetByID(ctx context.Context, id uint) (*parcelModel.Parcel, error)
	List(ctx context.Context, f repositories.ParcelFilter) ([]parcelModel.Parcel, error)
	Delete(ctx context.Context, id uint) error
}

// Lifecycle is the delivery lifecycle controller driving the coupled
// transitions.
type Lifecycle interface {
	AssignRider(ctx context.Context, in lifecycle.AssignInput) error
	AdvanceStatus(ctx context.Context, in lifecycle.AdvanceInput) error
}

// SlipParser extracts parcel fields from an address-slip photo.
type SlipParser interface {
	Parse(ctx context.Context, imageBytes []byte, mimeType string) (*parcelTypes.ParsedSlip, error)
}

// ParcelController handles parcel-related HTTP requests.
type ParcelController struct {
	Parcels    ParcelStore
	Lifecycle  Lifecycle
	SlipParser SlipParser
	Logger     *logger.AsyncLogger
}

// NewParcelController creates a new parcel controller.
func NewParcelController(parcels ParcelStore, lc Lifecycle, slips SlipParser, asyncLogger *logger.AsyncLogger) *ParcelController {
	return &ParcelController{
		Parcels:    parcels,
		Lifecycle:  lc,
		SlipParser: slips,
		Logger:     asyncLogger,
	}
}

func (pc *ParcelController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	if pc.Logger != nil {
		pc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	}
	return result
}

// Store creates a new parcel and auto-stamps its creation time.
func (pc *ParcelController) Store(c *fiber.Ctx) error {
	var req parcelTypes.CreateParcelRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	p := parcelModel.Parcel{
		SenderName:      req.SenderName,
		SenderEmail:     req.SenderEmail,
		SenderContact:   req.SenderContact,
		SenderRegion:    req.SenderRegion,
		ReceiverName:    req.ReceiverName,
		ReceiverContact: req.ReceiverContact,
		ReceiverRegion:  req.ReceiverRegion,
		ReceiverAddress: req.ReceiverAddress,
		ParcelType:      req.ParcelType,
		WeightKG:        req.Weight,
		Cost:            req.Cost,
	}

	if err := pc.Parcels.Create(c.UserContext(), &p); err != nil {
		logger.Error("Failed to create parcel", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save parcel",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Parcel created successfully with ID: %d", p.ID))

	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Parcel created successfully",
		Data:    p,
	})
}

// Index lists parcels newest first, optionally filtered by sender email and
// current delivery status.
func (pc *ParcelController) Index(c *fiber.Ctx) error {
	filter := repositories.ParcelFilter{
		SenderEmail:    c.Query("email"),
		DeliveryStatus: c.Query("deliveryStatus"),
	}

	parcels, err := pc.Parcels.List(c.UserContext(), filter)
	if err != nil {
		logger.Error("Failed to list parcels", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Parcels retrieved successfully",
		Data:    parcels,
	})
}

// RiderQueue lists a rider's active queue. Delivered parcels are excluded
// unless the status filter asks for them explicitly.
func (pc *ParcelController) RiderQueue(c *fiber.Ctx) error {
	riderEmail := c.Query("riderEmail")
	if riderEmail == "" {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "riderEmail is required",
			Data:    nil,
		})
	}

	filter := repositories.ParcelFilter{
		RiderEmail:       riderEmail,
		DeliveryStatus:   c.Query("deliveryStatus"),
		ExcludeDelivered: true,
	}

	parcels, err := pc.Parcels.List(c.UserContext(), filter)
	if err != nil {
		logger.Error("Failed to list rider parcels", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Rider parcels retrieved successfully",
		Data:    parcels,
	})
}

// Show returns a single parcel by id.
func (pc *ParcelController) Show(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
			Data:    nil,
		})
	}

	p, err := pc.Parcels.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Parcel not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to find parcel", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Parcel retrieved successfully",
		Data:    p,
	})
}

// Destroy removes a parcel on explicit request.
func (pc *ParcelController) Destroy(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
			Data:    nil,
		})
	}

	if err := pc.Parcels.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Parcel not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to delete parcel", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Parcel deleted successfully",
		Data:    nil,
	})
}

// Assign triggers the assign-rider transition.
func (pc *ParcelController) Assign(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
			Data:    nil,
		})
	}

	var req parcelTypes.AssignRiderRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	err = pc.Lifecycle.AssignRider(c.UserContext(), lifecycle.AssignInput{
		ParcelID:   id,
		RiderID:    req.RiderID,
		RiderName:  req.RiderName,
		RiderEmail: req.RiderEmail,
		TrackingID: req.TrackingID,
	})
	if err != nil {
		return pc.transitionError(c, "Failed to assign rider", err)
	}

	logger.Success(fmt.Sprintf("Rider %d assigned to parcel %d", req.RiderID, id))

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Rider assigned successfully",
		Data: map[string]interface{}{
			"parcelId":       id,
			"riderId":        req.RiderID,
			"deliveryStatus": parcelModel.DeliveryStatusDriverAssigned,
		},
	})
}

// UpdateStatus triggers the advance-status transition.
func (pc *ParcelController) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid parcel id",
			Data:    nil,
		})
	}

	var req parcelTypes.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	err = pc.Lifecycle.AdvanceStatus(c.UserContext(), lifecycle.AdvanceInput{
		ParcelID:   id,
		Status:     req.DeliveryStatus,
		RiderID:    req.RiderID,
		TrackingID: req.TrackingID,
	})
	if err != nil {
		return pc.transitionError(c, "Failed to update delivery status", err)
	}

	logger.Success(fmt.Sprintf("Parcel %d advanced to %s", id, req.DeliveryStatus))

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Delivery status updated successfully",
		Data: map[string]interface{}{
			"parcelId":       id,
			"deliveryStatus": req.DeliveryStatus,
		},
	})
}

// transitionError maps lifecycle failures onto HTTP outcomes without
// leaking internal detail.
func (pc *ParcelController) transitionError(c *fiber.Ctx, msg string, err error) error {
	logger.Error(msg, err)

	if errors.Is(err, lifecycle.ErrIllegalTransition) {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Illegal delivery status transition",
			Data:    nil,
		})
	}

	var pe *errs.PartialError
	if errors.As(err, &pe) {
		// Parcel state is authoritative: report not-found only when the
		// parcel write itself missed.
		if pe.ParcelErr != nil && errors.Is(pe.ParcelErr, errs.ErrNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Parcel not found",
				Data:    nil,
			})
		}
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: msg,
			Data:    nil,
		})
	}

	if errors.Is(err, errs.ErrNotFound) {
		return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Parcel not found",
			Data:    nil,
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
		Status:  fiber.StatusInternalServerError,
		Message: msg,
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
