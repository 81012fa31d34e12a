package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shiftsched/scheduler/internal/metrics"
	"github.com/shiftsched/scheduler/internal/repository"
)

// Reaper periodically reclaims scheduling runs orphaned by a worker that
// crashed or lost connectivity mid-solve — detected by a stale heartbeat.
// Its cadence is cron-expressed rather than a fixed ticker, matching the
// pattern the rest of this system uses for recurring schedules.
type Reaper struct {
	runs             repository.RunRepository
	schedule         cron.Schedule
	heartbeatTimeout time.Duration
}

func NewReaper(runs repository.RunRepository, cronExpr string, heartbeatTimeout time.Duration) (*Reaper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Reaper{
		runs:             runs,
		schedule:         schedule,
		heartbeatTimeout: heartbeatTimeout,
	}, nil
}

func (r *Reaper) Start(ctx context.Context) {
	log.Printf("reaper started (heartbeat_timeout=%s)", r.heartbeatTimeout)

	for {
		next := r.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			log.Println("reaper: shut down")
			return
		case <-timer.C:
			r.reap(ctx)
		}
	}
}

func (r *Reaper) reap(ctx context.Context) {
	start := time.Now()
	defer func() { metrics.ReaperCycleDuration.Observe(time.Since(start).Seconds()) }()

	staleCutoff := time.Now().Add(-r.heartbeatTimeout)

	rescued, err := r.runs.RescheduleStale(ctx, staleCutoff, 100)
	if err != nil {
		log.Printf("reaper: reschedule stale runs: %v", err)
		return
	}
	if rescued > 0 {
		metrics.ReaperReclaimedTotal.WithLabelValues("orphaned_run").Add(float64(rescued))
		log.Printf("reaper: reclaimed %d orphaned scheduling runs", rescued)
	}
}
