package stats

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/nodehealth/internal/logger"
	"github.com/rileyhilliard/nodehealth/internal/metrics"
)

// Sampling window bounds. The operator moves the window in IntervalStep
// increments between MinInterval and MaxInterval.
const (
	DefaultInterval = 5 * time.Second
	MinInterval     = 5 * time.Second
	MaxInterval     = 1000 * time.Second
	IntervalStep    = 5 * time.Second
)

// Loop drives a sampler back to back, one window per emission, and
// publishes each snapshot unless paused. Paused emissions still run so the
// next published snapshot is current.
type Loop struct {
	sampler Sampler
	pub     Publisher
	log     logger.Logger
	metrics *metrics.Metrics

	interval atomic.Int64
	paused   atomic.Bool

	sleep func(ctx context.Context, d time.Duration) error
}

// NewLoop creates a loop with the given starting window.
func NewLoop(sampler Sampler, pub Publisher, interval time.Duration, log logger.Logger, m *metrics.Metrics) *Loop {
	if log == nil {
		log = logger.Noop()
	}
	l := &Loop{
		sampler: sampler,
		pub:     pub,
		log:     log,
		metrics: m,
		sleep:   sleepCtx,
	}
	l.SetInterval(interval)
	return l
}

// Pause stops publishing from the next emission on.
func (l *Loop) Pause() { l.paused.Store(true) }

// Resume starts publishing again from the next emission on.
func (l *Loop) Resume() { l.paused.Store(false) }

// Paused reports whether publishing is paused.
func (l *Loop) Paused() bool { return l.paused.Load() }

// Interval returns the current sampling window.
func (l *Loop) Interval() time.Duration { return time.Duration(l.interval.Load()) }

// SetInterval sets the window, clamped to the allowed range. It applies
// from the next emission.
func (l *Loop) SetInterval(d time.Duration) time.Duration {
	d = clampInterval(d)
	l.interval.Store(int64(d))
	return d
}

// AdjustInterval moves the window by steps increments and returns the
// new window.
func (l *Loop) AdjustInterval(steps int) time.Duration {
	return l.SetInterval(l.Interval() + time.Duration(steps)*IntervalStep)
}

func clampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}

// Run emits until ctx is cancelled. A failed emission is logged and the
// loop waits one window before trying again; nothing is published for it.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		window := l.Interval()
		snap, err := l.sampler.Emit(ctx, window)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.log.Warn("statistics not updated: %v", err)
			l.metrics.IncSampleErrors()
			if err := l.sleep(ctx, window); err != nil {
				return err
			}
			continue
		}

		for _, v := range snap.Values {
			l.metrics.SetStatValue(v.Name, v.Value)
		}
		if !l.paused.Load() {
			l.pub.PublishStats(snap)
		}
	}
}
