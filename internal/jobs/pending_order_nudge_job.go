package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/realtime"

	"github.com/robfig/cron/v3"
)

// PendingOrderNudgeJob periodically broadcasts the size of the claimable
// backlog to the partner notification room. Partners with the app open see
// the count tick without polling; the actual claim still races through the
// conditional update.
type PendingOrderNudgeJob struct {
	handler    queries.GetPendingOrdersQueryHandler
	dispatcher *realtime.Dispatcher
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewPendingOrderNudgeJob creates a job that nudges partners every 30 seconds.
func NewPendingOrderNudgeJob(
	handler queries.GetPendingOrdersQueryHandler,
	dispatcher *realtime.Dispatcher,
	logger *slog.Logger,
) *PendingOrderNudgeJob {
	return &PendingOrderNudgeJob{
		handler:    handler,
		dispatcher: dispatcher,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "pending_order_nudge_job"),
	}
}

// Start begins the nudge job on a 30 second schedule.
func (j *PendingOrderNudgeJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()

		pending, err := j.handler.Handle(ctx, queries.NewGetPendingOrdersQuery())
		if err != nil {
			j.logger.ErrorContext(ctx, "Pending order nudge job failed", "error", err)
			return
		}

		j.dispatcher.PendingOrders(ctx, len(pending), time.Now().UTC())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pending order nudge job started (running every 30 seconds)")
	return nil
}

// Stop stops the nudge job.
func (j *PendingOrderNudgeJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Pending order nudge job stopped")
}
