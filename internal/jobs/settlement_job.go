package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SettlementJob runs the scheduled settlement pass that promotes due pending
// earnings to available. The pass is a single predicate-scoped statement, so
// a run overlapping a manual trigger promotes each earning exactly once.
type SettlementJob struct {
	handler  commands.RunSettlementPassCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewSettlementJob creates the job with a standard five-field cron schedule,
// typically once a day during the night.
func NewSettlementJob(
	handler commands.RunSettlementPassCommandHandler,
	schedule string,
	logger *slog.Logger,
) *SettlementJob {
	return &SettlementJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "settlement_job"),
	}
}

// Start schedules the settlement pass.
func (j *SettlementJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewRunSettlementPassCommand()

		batch, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Settlement pass failed", "error", err)
			return
		}

		j.logger.InfoContext(ctx, "Settlement pass completed",
			"promoted", batch.PromotedCount,
			"totalNet", batch.TotalNet.Int64())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Settlement job started",
		"schedule", j.schedule)
	return nil
}

// Stop stops the settlement job.
func (j *SettlementJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Settlement job stopped")
}
