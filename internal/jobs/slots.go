package jobs

import (
	"context"
	"log/slog"
	"time"

	"fitbook/internal/pkg/clock"
	"fitbook/internal/pkg/config"
	"fitbook/internal/usecase/commands"
	"fitbook/internal/usecase/shared"

	"github.com/robfig/cron/v3"
)

// SlotHorizonJob keeps the rolling booking horizon materialized: every run
// generates missing slots for each branch up to HorizonDays ahead.
// Generation is best-effort per branch; a failing branch never blocks the
// others, and existing slots stay bookable regardless.
type SlotHorizonJob struct {
	slots commands.SlotCommands
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.BookingConfig
	cron  *cron.Cron
}

func NewSlotHorizonJob(slots commands.SlotCommands, uow shared.UnitOfWork, clk clock.Clock, cfg config.BookingConfig) *SlotHorizonJob {
	return &SlotHorizonJob{
		slots: slots,
		uow:   uow,
		clock: clk,
		cfg:   cfg,
		cron:  cron.New(),
	}
}

func (j *SlotHorizonJob) Start() error {
	if _, err := j.cron.AddFunc(j.cfg.SlotJobSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		j.RunOnce(ctx)
	}); err != nil {
		return err
	}
	j.cron.Start()
	slog.Info("slot horizon job scheduled", "schedule", j.cfg.SlotJobSchedule, "horizon_days", j.cfg.HorizonDays)
	return nil
}

func (j *SlotHorizonJob) Stop() {
	<-j.cron.Stop().Done()
}

// RunOnce is also called at startup so a fresh deployment has slots before
// the first scheduled run.
func (j *SlotHorizonJob) RunOnce(ctx context.Context) {
	branches, err := j.uow.CommandReads().Branches(ctx)
	if err != nil {
		slog.Error("slot generation: failed to list branches", "error", err.Error())
		return
	}

	from := j.clock.Now()
	to := from.AddDate(0, 0, j.cfg.HorizonDays)

	for _, branch := range branches {
		inserted, err := j.slots.EnsureSlots(ctx, branch.ID, from, to)
		if err != nil {
			slog.Error("slot generation failed",
				"branch_id", branch.ID,
				"branch", branch.Name,
				"error", err.Error())
			continue
		}
		if inserted > 0 {
			slog.Info("slots generated", "branch_id", branch.ID, "inserted", inserted)
		}
	}
}
