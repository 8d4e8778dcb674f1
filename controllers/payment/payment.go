package payment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"parcel-delivery/errs"
	"parcel-delivery/httpServices/paymentgw"
	"parcel-delivery/logger"
	parcelModel "parcel-delivery/models/parcel"
	"parcel-delivery/services/reconcile"
	"parcel-delivery/types"
	paymentTypes "parcel-delivery/types/payment"
	"parcel-delivery/utils"

	"github.com/gofiber/fiber/v2"
)

// Gateway creates hosted checkout sessions with the payment provider.
type Gateway interface {
	CreateSession(ctx context.Context, req paymentgw.CreateSessionRequest) (*paymentgw.CreateSessionResponse, error)
}

// Reconciler applies confirmed checkouts exactly once.
type Reconciler interface {
	Reconcile(ctx context.Context, sessionID string) (*reconcile.Result, error)
}

// ParcelStore resolves the parcel a checkout is being created for.
type ParcelStore interface {
	GetByID(ctx context.Context, id uint) (*parcelModel.Parcel, error)
}

// PaymentController handles checkout creation and the post-payment
// reconciliation callback.
type PaymentController struct {
	Gateway    Gateway
	Reconciler Reconciler
	Parcels    ParcelStore
	Logger     *logger.AsyncLogger
}

// NewPaymentController creates a new payment controller.
func NewPaymentController(gateway Gateway, reconciler Reconciler, parcels ParcelStore, asyncLogger *logger.AsyncLogger) *PaymentController {
	return &PaymentController{
		Gateway:    gateway,
		Reconciler: reconciler,
		Parcels:    parcels,
		Logger:     asyncLogger,
	}
}

func (pc *PaymentController) sendResponseWithLog(c *fiber.Ctx, status int, body interface{}) error {
	result := c.Status(status).JSON(body)
	if pc.Logger != nil {
		pc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	}
	return result
}

// CreateCheckoutSession asks the provider for a hosted checkout session for
// a parcel and returns the redirect URL.
func (pc *PaymentController) CreateCheckoutSession(c *fiber.Ctx) error {
	var req paymentTypes.CreateCheckoutSessionRequest
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

	parcel, err := pc.Parcels.GetByID(c.UserContext(), req.ParcelID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Parcel not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to find parcel for checkout", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	if parcel.PaymentStatus == parcelModel.PaymentStatusPaid {
		return pc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Parcel is already paid",
			Data:    nil,
		})
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	session, err := pc.Gateway.CreateSession(c.UserContext(), paymentgw.CreateSessionRequest{
		Amount:        parcel.Cost,
		Currency:      "bdt",
		ProductName:   fmt.Sprintf("Parcel delivery #%d", parcel.ID),
		CustomerEmail: parcel.SenderEmail,
		SuccessURL:    frontendURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     frontendURL + "/payment-cancelled",
		Metadata: map[string]string{
			"parcelId": strconv.FormatUint(uint64(parcel.ID), 10),
		},
	})
	if err != nil {
		logger.Error("Failed to create checkout session", err)
		return pc.sendResponseWithLog(c, fiber.StatusBadGateway, types.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Payment provider unavailable",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Checkout session %s created for parcel %d", session.SessionID, parcel.ID))

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Checkout session created successfully",
		Data:    session,
	})
}

// PaymentSuccess is the post-checkout callback. Response bodies here keep
// the shapes the front-end already consumes instead of the ApiResponse
// envelope.
func (pc *PaymentController) PaymentSuccess(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, fiber.Map{
			"success": false,
			"message": "session_id is required",
		})
	}

	result, err := pc.Reconciler.Reconcile(c.UserContext(), sessionID)
	if err != nil {
		var pe *errs.PartialError
		if errors.As(err, &pe) {
			// Payment is recorded but the parcel write missed. Surface a
			// server error so the operator reconciles by hand.
			logger.Error("Payment recorded but parcel not updated", err)
			txID := ""
			if result != nil {
				txID = result.TransactionID
			}
			return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, fiber.Map{
				"success":       false,
				"message":       "Payment recorded but parcel update failed",
				"transactionId": txID,
			})
		}
		if errors.Is(err, errs.ErrProviderUnavailable) {
			logger.Error("Payment provider lookup failed", err)
			return pc.sendResponseWithLog(c, fiber.StatusBadGateway, fiber.Map{
				"success": false,
				"message": "Payment provider unavailable",
			})
		}
		logger.Error("Payment reconciliation failed", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, fiber.Map{
			"success": false,
			"message": "Payment reconciliation failed",
		})
	}

	switch result.Outcome {
	case reconcile.OutcomeDuplicate:
		return pc.sendResponseWithLog(c, fiber.StatusOK, fiber.Map{
			"message":       "Already Use",
			"transactionId": result.TransactionID,
			"trackingId":    result.TrackingID,
		})
	case reconcile.OutcomeNotPaid:
		return pc.sendResponseWithLog(c, fiber.StatusOK, fiber.Map{
			"success": false,
		})
	}

	if result.LedgerErr != nil {
		logger.Warning(fmt.Sprintf("Payment reconciled but first tracking event missing for %s: %v",
			result.TrackingID, result.LedgerErr))
	}

	logger.Success(fmt.Sprintf("Payment reconciled for parcel %d, tracking %s", result.ParcelID, result.TrackingID))

	return pc.sendResponseWithLog(c, fiber.StatusOK, fiber.Map{
		"success":       true,
		"modifyParcel":  result.ParcelUpdated,
		"paymentInfo":   result.Payment,
		"trackingId":    result.TrackingID,
		"transactionId": result.TransactionID,
	})
}
