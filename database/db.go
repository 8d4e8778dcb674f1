package database

import (
	"fmt"
	"os"

	"parcel-delivery/logger"
	logModel "parcel-delivery/models/log"
	"parcel-delivery/models/parcel"
	"parcel-delivery/models/payment"
	"parcel-delivery/models/rider"
	"parcel-delivery/models/tracking"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the database connection, runs migrations and indexing, and
// returns the handle. Callers inject it into the repositories; there is no
// package-level singleton.
func InitDB() (*gorm.DB, error) {
	// Get database configuration from environment variables
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	// Set default sslmode if not provided
	if sslmode == "" {
		sslmode = "disable"
	}

	// Build PostgreSQL DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	// TranslateError maps driver unique-violation errors onto
	// gorm.ErrDuplicatedKey, which the repositories rely on for the
	// payment transaction-id guard.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(db); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	// Create indexes for better performance
	if err := createIndexes(db); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return db, nil
}

// autoMigrate runs auto migration for all models in dependency order
func autoMigrate(db *gorm.DB) error {
	// Stage 1: core documents
	stage1Models := []interface{}{
		&parcel.Parcel{},
		&rider.Rider{},
	}

	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: records referencing stage 1
	stage2Models := []interface{}{
		&payment.Payment{},
		&tracking.Event{},
	}

	for _, model := range stage2Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: remaining models
	remainingModels := []interface{}{
		// Logging
		&logModel.Log{},
	}

	for _, model := range remainingModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes(db *gorm.DB) error {
	// Parcel indexes
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_parcels_sender_email ON parcels(sender_email)").Error; err != nil {
		return fmt.Errorf("failed to create parcel sender_email index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_parcels_rider_email ON parcels(rider_email)").Error; err != nil {
		return fmt.Errorf("failed to create parcel rider_email index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_parcels_delivery_status ON parcels(delivery_status)").Error; err != nil {
		return fmt.Errorf("failed to create parcel delivery_status index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_parcels_tracking_id ON parcels(tracking_id)").Error; err != nil {
		return fmt.Errorf("failed to create parcel tracking_id index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_parcels_created_at ON parcels(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create parcel created_at index: %w", err)
	}

	// Rider indexes
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_riders_status ON riders(status)").Error; err != nil {
		return fmt.Errorf("failed to create rider status index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_riders_work_status ON riders(work_status)").Error; err != nil {
		return fmt.Errorf("failed to create rider work_status index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_riders_district ON riders(district)").Error; err != nil {
		return fmt.Errorf("failed to create rider district index: %w", err)
	}

	// Tracking event indexes
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_tracking_events_tracking_id_created_at ON tracking_events(tracking_id, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create tracking event index: %w", err)
	}

	// Payment indexes
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_payments_parcel_id ON payments(parcel_id)").Error; err != nil {
		return fmt.Errorf("failed to create payment parcel_id index: %w", err)
	}

	// Log indexes
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)").Error; err != nil {
		return fmt.Errorf("failed to create log method index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)").Error; err != nil {
		return fmt.Errorf("failed to create log status_code index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}
