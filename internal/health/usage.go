package health

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/nodehealth/internal/errors"
	"github.com/rileyhilliard/nodehealth/internal/exec"
	"github.com/rileyhilliard/nodehealth/internal/snmp"
)

// Raw CPU tick counters from the UCD-SNMP systemStats table.
const (
	oidCPUUser       = ".1.3.6.1.4.1.2021.11.50.0"
	oidCPUNice       = ".1.3.6.1.4.1.2021.11.51.0"
	oidCPUSystem     = ".1.3.6.1.4.1.2021.11.52.0"
	oidCPUIdle       = ".1.3.6.1.4.1.2021.11.53.0"
	oidCPUInterrupts = ".1.3.6.1.4.1.2021.11.56.0"
)

var diskUsagePattern = regexp.MustCompile(`Usage of /: *?(.*?)% of`)

// ResourceConfig holds the resource ceilings.
type ResourceConfig struct {
	DiskCeiling float64
	CPUCeiling  float64
	// CPUInterval is the gap between the two tick readings. Much below
	// seven seconds the counters may not have moved at all.
	CPUInterval time.Duration
}

// ResourceStage reports disk and CPU use. Pressure is a warning, never an
// error, and the chain always continues past it.
type ResourceStage struct {
	runner exec.Runner
	source snmp.Source
	cmds   Commands
	cfg    ResourceConfig
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewResourceStage creates the resource stage.
func NewResourceStage(runner exec.Runner, source snmp.Source, cmds Commands, cfg ResourceConfig) *ResourceStage {
	return &ResourceStage{
		runner: runner,
		source: source,
		cmds:   cmds,
		cfg:    cfg,
		sleep:  sleepCtx,
	}
}

// Name implements Stage.
func (s *ResourceStage) Name() string { return "resources" }

// Evaluate implements Stage.
func (s *ResourceStage) Evaluate(ctx context.Context) (bool, []Verdict) {
	return true, []Verdict{s.checkDisk(ctx), s.checkCPU(ctx)}
}

func (s *ResourceStage) checkDisk(ctx context.Context) Verdict {
	out, err := s.runner.Run(ctx, s.cmds.SysInfo)
	if err != nil {
		return Verdict{Name: CheckDisk, Err: errors.Wrap(err, "system summary failed")}
	}

	use, err := parseDiskUse(out)
	if err != nil {
		return Verdict{Name: CheckDisk, Err: err}
	}
	if use > s.cfg.DiskCeiling {
		return Verdict{Name: CheckDisk, Status: StatusWarning, Message: msgDisk}
	}
	return Verdict{Name: CheckDisk, Status: StatusGood}
}

func parseDiskUse(out string) (float64, error) {
	m := diskUsagePattern.FindStringSubmatch(out)
	if m == nil {
		return 0, errors.New(errors.ErrParse, "no root filesystem usage in system summary", "")
	}
	use, err := strconv.ParseFloat(strings.TrimSpace(m[1]), 64)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("disk usage %q is not a number", m[1]), "")
	}
	return use, nil
}

type cpuTicks struct {
	idle  float64
	total float64
}

func (s *ResourceStage) readTicks(ctx context.Context) (cpuTicks, error) {
	var t cpuTicks
	for _, oid := range []string{oidCPUUser, oidCPUNice, oidCPUSystem, oidCPUIdle, oidCPUInterrupts} {
		v, err := s.source.Get(ctx, oid)
		if err != nil {
			return cpuTicks{}, err
		}
		if oid == oidCPUIdle {
			t.idle = v
		}
		t.total += v
	}
	return t, nil
}

func (s *ResourceStage) checkCPU(ctx context.Context) Verdict {
	before, err := s.readTicks(ctx)
	if err != nil {
		return Verdict{Name: CheckCPU, Err: err}
	}
	if err := s.sleep(ctx, s.cfg.CPUInterval); err != nil {
		return Verdict{Name: CheckCPU, Err: err}
	}
	after, err := s.readTicks(ctx)
	if err != nil {
		return Verdict{Name: CheckCPU, Err: err}
	}

	use, err := cpuUse(before, after)
	if err != nil {
		return Verdict{Name: CheckCPU, Err: err}
	}
	if use > s.cfg.CPUCeiling {
		return Verdict{Name: CheckCPU, Status: StatusWarning, Message: msgCPU}
	}
	return Verdict{Name: CheckCPU, Status: StatusGood}
}

// cpuUse returns the busy percentage between two readings.
func cpuUse(before, after cpuTicks) (float64, error) {
	total := after.total - before.total
	if total <= 0 {
		return 0, errors.New(errors.ErrParse,
			"CPU tick counters did not advance between readings",
			"Increase checks.cpu_interval")
	}
	idle := after.idle - before.idle
	return 100 - 100*idle/total, nil
}
