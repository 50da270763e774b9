package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/nodehealth/internal/snmp"
)

// CounterStep is how often the counter sampler re-reads within a window.
const CounterStep = 5 * time.Second

// CounterSampler reads a table of statistics from a counter source. Each
// statistic is the sum of one or more counters.
//
// The value emitted for a window is the sum of every per-step reading taken
// during it, not the difference between the first and last reading. For
// monotonically increasing counters that is a running total scaled by the
// number of steps, not a rate.
type CounterSampler struct {
	source snmp.Source
	stats  []Statistic
	step   time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewCounterSampler creates a sampler over stats, in the given order.
func NewCounterSampler(source snmp.Source, stats []Statistic) *CounterSampler {
	return &CounterSampler{
		source: source,
		stats:  stats,
		step:   CounterStep,
		sleep:  sleepCtx,
	}
}

// Len implements Sampler.
func (s *CounterSampler) Len() int { return len(s.stats) }

// Emit implements Sampler. It reads once per step until window is used up,
// always reading at least once.
func (s *CounterSampler) Emit(ctx context.Context, window time.Duration) (Snapshot, error) {
	totals := make([]float64, len(s.stats))

	for remaining := window; ; {
		if err := s.readInto(ctx, totals); err != nil {
			return Snapshot{}, err
		}
		if err := s.sleep(ctx, s.step); err != nil {
			return Snapshot{}, err
		}
		remaining -= s.step
		if remaining <= 0 {
			break
		}
	}

	snap := Snapshot{Values: make([]Value, len(s.stats))}
	for i, st := range s.stats {
		snap.Values[i] = Value{Name: st.Name, Value: totals[i]}
	}
	return snap, nil
}

// readInto adds one reading of every statistic to totals.
func (s *CounterSampler) readInto(ctx context.Context, totals []float64) error {
	for i, st := range s.stats {
		for _, oid := range st.Counters() {
			v, err := s.source.Get(ctx, oid)
			if err != nil {
				return fmt.Errorf("read %s for %q: %w", oid, st.Name, err)
			}
			totals[i] += v
		}
	}
	return nil
}
