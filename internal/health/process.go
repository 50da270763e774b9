package health

import (
	"context"
	"regexp"
	"strings"

	"github.com/rileyhilliard/nodehealth/internal/errors"
	"github.com/rileyhilliard/nodehealth/internal/exec"
	"github.com/rileyhilliard/nodehealth/internal/logger"
)

// Supervisor unit types that open a summary line.
var unitKeywords = []string{
	"Process", "Program", "System", "File", "Fifo", "Filesystem", "Directory", "Remote",
}

var unitPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(unitKeywords))
	for _, kw := range unitKeywords {
		m[kw] = regexp.MustCompile("^" + kw + ` '(.*)' *(.*)$`)
	}
	return m
}()

// ProcessStage checks the process supervisor's view of the node. The chain
// only reaches the cluster checks when every unit is latched healthy.
type ProcessStage struct {
	runner exec.Runner
	cmds   Commands
	latch  *Latch
	log    logger.Logger
}

// NewProcessStage creates the stage with an empty latch set that lives as
// long as the stage does.
func NewProcessStage(runner exec.Runner, cmds Commands, log logger.Logger) *ProcessStage {
	if log == nil {
		log = logger.Noop()
	}
	return &ProcessStage{runner: runner, cmds: cmds, latch: NewLatch(), log: log}
}

// Name implements Stage.
func (s *ProcessStage) Name() string { return "processes" }

// Latch exposes the latch set.
func (s *ProcessStage) Latch() *Latch { return s.latch }

// Evaluate implements Stage. A summary that can't be read halts the chain
// without a NODE verdict.
func (s *ProcessStage) Evaluate(ctx context.Context) (bool, []Verdict) {
	out, err := s.runner.Run(ctx, s.cmds.MonitSummary)
	if err != nil {
		return false, []Verdict{{Name: CheckNode, Err: errors.Wrap(err, "process supervisor summary failed")}}
	}

	for _, obs := range parseSummary(out) {
		s.latch.Observe(obs.unit, obs.state)
	}

	if !s.latch.AllHealthy() {
		s.log.Debug("unhealthy units: %s", strings.Join(s.latch.Unhealthy(), ", "))
		return false, []Verdict{{Name: CheckNode, Status: StatusError, Message: msgNode}}
	}
	return true, []Verdict{{Name: CheckNode, Status: StatusGood}}
}

type observation struct {
	unit  string
	state string
}

// parseSummary extracts unit observations from supervisor summary text.
// Lines that don't start with a unit keyword are ignored.
func parseSummary(out string) []observation {
	var obs []observation
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		for _, kw := range unitKeywords {
			if !strings.HasPrefix(line, kw) {
				continue
			}
			m := unitPatterns[kw].FindStringSubmatch(line)
			if m == nil {
				// "File" also prefixes "Filesystem" lines
				continue
			}
			obs = append(obs, observation{unit: m[1], state: strings.TrimSpace(m[2])})
			break
		}
	}
	return obs
}
