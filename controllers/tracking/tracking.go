package tracking

import (
	"context"

	"parcel-delivery/logger"
	trackingModel "parcel-delivery/models/tracking"
	"parcel-delivery/types"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
)

// EventStore reads the append-only ledger for a tracking id.
type EventStore interface {
	ListByTrackingID(ctx context.Context, trackingID string) ([]trackingModel.Event, error)
}

// TrackingController serves the public tracking timeline.
type TrackingController struct {
	Events EventStore
	Logger *logger.AsyncLogger
}

// NewTrackingController creates a new tracking controller.
func NewTrackingController(events EventStore, asyncLogger *logger.AsyncLogger) *TrackingController {
	return &TrackingController{Events: events, Logger: asyncLogger}
}

func (tc *TrackingController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	if tc.Logger != nil {
		tc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	}
	return result
}

// Logs returns every ledger event recorded for a tracking id, oldest first.
// An id nothing was ever recorded under is indistinguishable from an unknown
// one, so both answer 404.
func (tc *TrackingController) Logs(c *fiber.Ctx) error {
	trackingID := c.Params("trackingId")
	if trackingID == "" {
		return tc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Tracking id is required",
			Data:    nil,
		})
	}

	events, err := tc.Events.ListByTrackingID(c.UserContext(), trackingID)
	if err != nil {
		logger.Error("Failed to list tracking events", err)
		return tc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	if len(events) == 0 {
		return tc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "No tracking events found",
			Data:    nil,
		})
	}

	return tc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Tracking events retrieved successfully",
		Data:    events,
	})
}
