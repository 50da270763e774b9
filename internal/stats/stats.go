// Package stats samples throughput statistics for the dashboard's table.
// A Sampler accumulates over one window and returns a snapshot; the Loop
// drives a sampler and publishes each snapshot.
package stats

import (
	"context"
	"strconv"
	"time"
)

// Value is one named statistic.
type Value struct {
	Name  string
	Value float64
}

// Formatted renders the value the way the table shows it.
func (v Value) Formatted() string {
	return strconv.FormatFloat(v.Value, 'f', -1, 64)
}

// Snapshot holds one window's values in configured order.
type Snapshot struct {
	Values []Value
}

// Names returns the statistic names in order.
func (s Snapshot) Names() []string {
	names := make([]string, len(s.Values))
	for i, v := range s.Values {
		names[i] = v.Name
	}
	return names
}

// Sampler produces a snapshot covering window. Emit blocks for roughly the
// window; any read failure fails the whole emission.
type Sampler interface {
	Emit(ctx context.Context, window time.Duration) (Snapshot, error)
	// Len returns how many statistics each snapshot carries.
	Len() int
}

// Publisher receives snapshots. The dashboard bridge implements it.
type Publisher interface {
	PublishStats(Snapshot)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Snapshot)

// PublishStats implements Publisher.
func (f PublisherFunc) PublishStats(s Snapshot) { f(s) }

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
