package jobs

import (
	"os"

	"parcel-delivery/logger"

	"github.com/robfig/cron/v3"
)

const defaultSweepSchedule = "*/10 * * * *"

// Manager owns the background cron jobs and their lifecycle.
type Manager struct {
	cron    *cron.Cron
	sweeper *AvailabilitySweeper
}

// NewManager wires the background jobs onto a fresh cron scheduler.
func NewManager(sweeper *AvailabilitySweeper) *Manager {
	return &Manager{
		cron:    cron.New(),
		sweeper: sweeper,
	}
}

// StartAll registers every job and starts the scheduler.
func (m *Manager) StartAll() error {
	schedule := os.Getenv("AVAILABILITY_SWEEP_CRON")
	if schedule == "" {
		schedule = defaultSweepSchedule
	}

	if _, err := m.cron.AddFunc(schedule, m.sweeper.Run); err != nil {
		return err
	}

	m.cron.Start()
	logger.Info("Background jobs started, availability sweep on " + schedule)
	return nil
}

// StopAll stops the scheduler and waits for running jobs to finish.
func (m *Manager) StopAll() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	logger.Info("Background jobs stopped")
}
