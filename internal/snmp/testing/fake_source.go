// Package testing provides test doubles for the snmp package.
package testing

import (
	"context"
	"fmt"
	"sync"
)

// FakeSource serves counter values from a table. Each OID holds a queue of
// values; the last one repeats once the queue is drained.
type FakeSource struct {
	mu     sync.Mutex
	values map[string][]float64
	errs   map[string]error
	reads  map[string]int
}

// NewFakeSource creates an empty fake.
func NewFakeSource() *FakeSource {
	return &FakeSource{
		values: make(map[string][]float64),
		errs:   make(map[string]error),
		reads:  make(map[string]int),
	}
}

// Set queues values for oid.
func (f *FakeSource) Set(oid string, values ...float64) *FakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[oid] = append(f.values[oid], values...)
	return f
}

// Fail makes every read of oid return err.
func (f *FakeSource) Fail(oid string, err error) *FakeSource {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[oid] = err
	return f
}

// Get implements snmp.Source.
func (f *FakeSource) Get(ctx context.Context, oid string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads[oid]++

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err, ok := f.errs[oid]; ok {
		return 0, err
	}
	queue := f.values[oid]
	if len(queue) == 0 {
		return 0, fmt.Errorf("fake source: no value for %s", oid)
	}
	v := queue[0]
	if len(queue) > 1 {
		f.values[oid] = queue[1:]
	}
	return v, nil
}

// Reads returns how many times oid was read.
func (f *FakeSource) Reads(oid string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads[oid]
}
