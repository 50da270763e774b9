// Package testing provides test doubles for the exec package.
package testing

import (
	"context"
	"fmt"
	"sync"
)

// Response is a canned result for one command.
type Response struct {
	Output string
	Err    error
}

// FakeRunner returns canned output per command and records every call.
// Unknown commands fail so a test notices a diagnostic it did not expect.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string][]Response
	calls     []string
}

// NewFakeRunner creates an empty fake runner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string][]Response)}
}

// On queues output for command. Queued responses are consumed in order and
// the last one repeats once the queue is drained.
func (f *FakeRunner) On(command, output string) *FakeRunner {
	return f.OnResponse(command, Response{Output: output})
}

// OnError queues a failure for command.
func (f *FakeRunner) OnError(command string, err error) *FakeRunner {
	return f.OnResponse(command, Response{Err: err})
}

// OnResponse queues an arbitrary response for command.
func (f *FakeRunner) OnResponse(command string, r Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[command] = append(f.responses[command], r)
	return f
}

// Run implements exec.Runner.
func (f *FakeRunner) Run(ctx context.Context, command string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, command)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	queue, ok := f.responses[command]
	if !ok || len(queue) == 0 {
		return "", fmt.Errorf("fake runner: unexpected command %q", command)
	}
	r := queue[0]
	if len(queue) > 1 {
		f.responses[command] = queue[1:]
	}
	return r.Output, r.Err
}

// Calls returns the commands run so far, in order.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how many times command was run.
func (f *FakeRunner) CallCount(command string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == command {
			n++
		}
	}
	return n
}
