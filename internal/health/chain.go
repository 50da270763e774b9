package health

import (
	"context"
	"time"

	"github.com/rileyhilliard/nodehealth/internal/logger"
)

// Stage is one link of the check chain. It may report several named checks
// and says whether the chain should carry on to the next stage this cycle.
type Stage interface {
	Name() string
	Evaluate(ctx context.Context) (bool, []Verdict)
}

// Chain runs stages in order until one asks it to stop.
type Chain struct {
	stages []Stage
	log    logger.Logger
}

// NewChain creates a chain over stages.
func NewChain(log logger.Logger, stages ...Stage) *Chain {
	if log == nil {
		log = logger.Noop()
	}
	return &Chain{stages: stages, log: log}
}

// Run evaluates the chain once and returns every verdict reported, in order.
// Skipped stages are simply absent from the result and run again next cycle.
func (c *Chain) Run(ctx context.Context) []Verdict {
	var verdicts []Verdict
	for _, stage := range c.stages {
		if ctx.Err() != nil {
			break
		}
		cont, vs := stage.Evaluate(ctx)
		verdicts = append(verdicts, vs...)
		if !cont {
			c.log.Debug("stage %s stopped the chain", stage.Name())
			break
		}
	}
	return verdicts
}

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
