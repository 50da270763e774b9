package stats

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// Billing statistics reported from the access log.
const (
	StatSuccessfulBilling = "Successful billing events"
	StatTotalBilling      = "Total billing events"
)

var (
	billingSuccessPattern = regexp.MustCompile(` 2.*? POST /call-id/`)
	billingTotalPattern   = regexp.MustCompile(` ... POST /call-id/`)
)

// LogRateSampler counts billing requests in an access log that is rotated
// by repointing a symlink. Only complete lines are counted; a trailing
// partial line waits for the next emission.
type LogRateSampler struct {
	path    string
	file    *os.File
	target  string
	partial []byte
	// Lines read by an emission that failed part way. They are reported by
	// the next successful one.
	pending lineCounts
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewLogRateSampler opens the log at path and starts reading from its end,
// so the first emission only counts requests made after start-up.
func NewLogRateSampler(path string) (*LogRateSampler, error) {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fmt.Errorf("resolve access log %s: %w", path, err)
	}
	f, err := os.Open(target)
	if err != nil {
		return nil, fmt.Errorf("open access log: %w", err)
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, fmt.Errorf("seek access log: %w", err)
	}
	return &LogRateSampler{path: path, file: f, target: target, sleep: sleepCtx}, nil
}

// Len implements Sampler.
func (s *LogRateSampler) Len() int { return 2 }

// Close releases the open log file.
func (s *LogRateSampler) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// Emit implements Sampler. It waits out the window, then counts the lines
// written since the previous emission. If the log was rotated meanwhile,
// the rest of the old file is counted before the new one is read from the
// start. Lines read by a failed emission are carried into the next one.
func (s *LogRateSampler) Emit(ctx context.Context, window time.Duration) (Snapshot, error) {
	if err := s.sleep(ctx, window); err != nil {
		return Snapshot{}, err
	}

	c := &s.pending
	if err := s.drain(c, false); err != nil {
		return Snapshot{}, err
	}

	target, err := filepath.EvalSymlinks(s.path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("resolve access log %s: %w", s.path, err)
	}
	if target != s.target {
		// Nothing more will be written to the old file
		if err := s.drain(c, true); err != nil {
			return Snapshot{}, err
		}
		f, err := os.Open(target)
		if err != nil {
			return Snapshot{}, fmt.Errorf("open rotated access log: %w", err)
		}
		s.file.Close()
		s.file, s.target = f, target
		if err := s.drain(c, false); err != nil {
			return Snapshot{}, err
		}
	}

	counts := s.pending
	s.pending = lineCounts{}
	return Snapshot{Values: []Value{
		{Name: StatSuccessfulBilling, Value: float64(counts.success)},
		{Name: StatTotalBilling, Value: float64(counts.total)},
	}}, nil
}

type lineCounts struct {
	success int
	total   int
}

func (c *lineCounts) add(line []byte) {
	if billingSuccessPattern.Match(line) {
		c.success++
	}
	if billingTotalPattern.Match(line) {
		c.total++
	}
}

// drain reads to the current end of the open file and counts every
// complete line. With final set, a trailing partial line is counted too.
func (s *LogRateSampler) drain(c *lineCounts, final bool) error {
	data, err := io.ReadAll(s.file)
	if err != nil {
		return fmt.Errorf("read access log: %w", err)
	}
	buf := append(s.partial, data...)
	s.partial = nil

	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		c.add(buf[:i])
		buf = buf[i+1:]
	}

	if len(buf) > 0 {
		if final {
			c.add(buf)
		} else {
			s.partial = append([]byte(nil), buf...)
		}
	}
	return nil
}
