package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/render"
)

// Scheduler periodically re-renders the live selection so the displayed grid
// tracks data published out-of-band (the producer runs twice a day and may
// backfill snapshots at any time). It is also the retry path when boot could
// not resolve the latest-date pointer.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pipeline  *render.Pipeline
	interval  time.Duration
	timeout   time.Duration
}

// New creates a Scheduler driving the given pipeline.
func New(pipeline *render.Pipeline, interval, timeout time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		pipeline:  pipeline,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.refresh)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// refresh is the periodic job body: one bounded Refresh pass, which also
// re-attempts the latest-date pointer while the view sits on a boot fallback.
func (s *Scheduler) refresh() {
	log.Println("scheduler: refreshing displayed view")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	v := s.pipeline.Refresh(ctx)
	log.Printf("scheduler: refresh done: %s", v.Status)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
