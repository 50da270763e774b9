package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/nodehealth/internal/logger"
	"github.com/rileyhilliard/nodehealth/internal/metrics"
)

// Publisher receives health reports. The dashboard bridge implements it.
type Publisher interface {
	PublishHealth(Report)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Report)

// PublishHealth implements Publisher.
func (f PublisherFunc) PublishHealth(r Report) { f(r) }

// Scheduler runs the chain on a fixed interval and publishes the merged
// status table. While paused it keeps running the chain so the table stays
// current, but publishes nothing.
type Scheduler struct {
	chain   *Chain
	pub     Publisher
	log     logger.Logger
	metrics *metrics.Metrics

	interval atomic.Int64
	paused   atomic.Bool

	// Only touched by the Run goroutine.
	table *StatusTable
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// NewScheduler creates a scheduler polling every interval.
func NewScheduler(chain *Chain, pub Publisher, interval time.Duration, log logger.Logger, m *metrics.Metrics) *Scheduler {
	if log == nil {
		log = logger.Noop()
	}
	s := &Scheduler{
		chain:   chain,
		pub:     pub,
		log:     log,
		metrics: m,
		table:   NewStatusTable(),
		sleep:   sleepCtx,
		now:     time.Now,
	}
	s.interval.Store(int64(interval))
	return s
}

// Pause stops publishing from the next cycle on.
func (s *Scheduler) Pause() { s.paused.Store(true) }

// Resume starts publishing again from the next cycle on.
func (s *Scheduler) Resume() { s.paused.Store(false) }

// Paused reports whether publishing is paused.
func (s *Scheduler) Paused() bool { return s.paused.Load() }

// SetPollInterval changes the gap between cycles. It applies to the next sleep.
func (s *Scheduler) SetPollInterval(d time.Duration) { s.interval.Store(int64(d)) }

// PollInterval returns the gap between cycles.
func (s *Scheduler) PollInterval() time.Duration { return time.Duration(s.interval.Load()) }

// Run runs the chain once straight away so the first publish has real data,
// then loops until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	report := s.cycle(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.paused.Load() {
			s.pub.PublishHealth(report)
		}
		if err := s.sleep(ctx, s.PollInterval()); err != nil {
			return err
		}
		report = s.cycle(ctx)
	}
}

// cycle runs the chain and merges its verdicts. Alerts only carry what this
// cycle raised; statuses of checks that failed or were skipped keep their
// previous value.
func (s *Scheduler) cycle(ctx context.Context) Report {
	start := s.now()
	verdicts := s.chain.Run(ctx)
	s.metrics.ObserveCycleDuration(s.now().Sub(start))

	var alerts Alerts
	for _, v := range verdicts {
		if v.Failed() {
			s.log.Warn("%s not updated: %v", v.Name, v.Err)
			s.metrics.IncDiagnosticErrors(v.Name)
			continue
		}
		s.table.Set(v.Name, v.Status)
		s.metrics.SetCheckStatus(v.Name, int(v.Status))
		alerts.Raise(v)
	}

	return Report{
		Statuses: s.table.Entries(),
		Alerts:   alerts,
		Failing:  s.table.Failing(),
	}
}
