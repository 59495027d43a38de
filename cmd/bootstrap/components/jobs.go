package components

import (
	"context"
	"time"

	"fitbook/internal/jobs"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		jobs.NewSlotHorizonJob,
	),
	fx.Invoke(startSlotHorizonJob),
)

func startSlotHorizonJob(lc fx.Lifecycle, job *jobs.SlotHorizonJob) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Seed the horizon immediately; the cron keeps it rolling.
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				defer cancel()
				job.RunOnce(ctx)
			}()
			return job.Start()
		},
		OnStop: func(_ context.Context) error {
			job.Stop()
			return nil
		},
	})
}
