package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/realtime"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	pendingOrderNudgeJob *PendingOrderNudgeJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	getPendingOrdersHandler queries.GetPendingOrdersQueryHandler,
	dispatcher *realtime.Dispatcher,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		pendingOrderNudgeJob: NewPendingOrderNudgeJob(getPendingOrdersHandler, dispatcher, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.pendingOrderNudgeJob.Start(); err != nil {
		return fmt.Errorf("failed to start pending order nudge job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.pendingOrderNudgeJob.Stop()
}
