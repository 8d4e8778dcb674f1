package routes

import (
	"os"

	"parcel-delivery/constants"
	parcelController "parcel-delivery/controllers/parcel"
	paymentController "parcel-delivery/controllers/payment"
	riderController "parcel-delivery/controllers/rider"
	trackingController "parcel-delivery/controllers/tracking"
	"parcel-delivery/httpServices/paymentgw"
	"parcel-delivery/logger"
	"parcel-delivery/middleware"
	"parcel-delivery/repositories"
	"parcel-delivery/services/availability"
	"parcel-delivery/services/ledger"
	"parcel-delivery/services/lifecycle"
	"parcel-delivery/services/reconcile"
	"parcel-delivery/services/slipparser"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)

	parcelRepo := repositories.NewParcelRepository(db)
	riderRepo := repositories.NewRiderRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	trackingRepo := repositories.NewTrackingRepository(db)

	ledgerWriter := ledger.NewWriter(trackingRepo)
	riderTracker := availability.NewTracker(riderRepo)

	opts := lifecycle.Options{
		StrictTransitions: os.Getenv("STRICT_TRANSITIONS") == "true",
		Transactional:     os.Getenv("TRANSACTIONAL_TRANSITIONS") == "true",
	}
	var runner lifecycle.TxRunner
	if opts.Transactional {
		runner = repositories.NewTxRunner(db)
	}
	lifecycleController := lifecycle.NewController(lifecycle.Stores{
		Parcels: parcelRepo,
		Riders:  riderTracker,
		Ledger:  ledgerWriter,
	}, runner, opts)

	gateway := paymentgw.NewClient(os.Getenv("PAYMENT_GW_BASE_URL"), os.Getenv("PAYMENT_GW_API_KEY"))
	reconciler := reconcile.NewUnit(gateway, parcelRepo, paymentRepo, ledgerWriter)
	slipParser := slipparser.NewService(os.Getenv("GEMINI_API_KEY"))

	parcels := parcelController.NewParcelController(parcelRepo, lifecycleController, slipParser, asyncLogger)
	riders := riderController.NewRiderController(riderRepo, parcelRepo, asyncLogger)
	payments := paymentController.NewPaymentController(gateway, reconciler, parcelRepo, asyncLogger)
	trackings := trackingController.NewTrackingController(trackingRepo, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("parcel-delivery is up")
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	app.Get("/trackings/:trackingId/logs", trackings.Logs)
	app.Post("/riders", riders.Store)
	app.Patch("/payment-success", payments.PaymentSuccess)

	/*=============================================================================
	| Parcel Routes
	===============================================================================*/
	app.Post("/parcels", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), parcels.Store)

	app.Post("/parcels/parse-slip", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), parcels.ParseSlip)

	app.Get("/parcels", middleware.RequireAnyPermission(
		constants.PermAdminFull,
		constants.PermCustomerFull,
	), parcels.Index)

	app.Get("/parcels/rider", middleware.RequirePermissions(
		constants.PermRiderFull,
	), parcels.RiderQueue)

	app.Get("/parcels/:id", middleware.RequireAnyPermission(
		constants.PermAdminFull,
		constants.PermCustomerFull,
	), parcels.Show)

	app.Delete("/parcels/:id", middleware.RequirePermissions(
		constants.PermAdminFull,
	), parcels.Destroy)

	app.Patch("/parcels/:id", middleware.RequirePermissions(
		constants.PermAdminFull,
	), parcels.Assign)

	app.Patch("/parcels/:id/status", middleware.RequirePermissions(
		constants.PermRiderFull,
	), parcels.UpdateStatus)

	/*=============================================================================
	| Rider Routes
	===============================================================================*/
	app.Get("/riders", middleware.RequirePermissions(
		constants.PermAdminFull,
	), riders.Index)

	app.Get("/riders/available", middleware.RequirePermissions(
		constants.PermAdminFull,
	), riders.Available)

	app.Patch("/riders/:id/status", middleware.RequirePermissions(
		constants.PermAdminFull,
	), riders.Decide)

	app.Get("/riders/me/stats", middleware.RequirePermissions(
		constants.PermRiderFull,
	), riders.Stats)

	/*=============================================================================
	| Payment Routes
	===============================================================================*/
	app.Post("/payment/create-checkout-session", middleware.RequirePermissions(
		constants.PermCustomerFull,
	), payments.CreateCheckoutSession)
}
