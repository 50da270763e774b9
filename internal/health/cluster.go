package health

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rileyhilliard/nodehealth/internal/errors"
	"github.com/rileyhilliard/nodehealth/internal/exec"
	"github.com/rileyhilliard/nodehealth/internal/logger"
	"github.com/rileyhilliard/nodehealth/internal/node"
)

const (
	etcdHealthyMarker   = "cluster is healthy"
	clusterStableMarker = "The cluster is stable"
	// The stability line sits two lines below the cluster's heading.
	clusterStateOffset = 2
)

var etcdMemberPattern = regexp.MustCompile(`member .* is (\w+)`)

// ClusterCheck is one membership check inside a tier. The bool says whether
// the cluster passed; the verdict is reported either way.
type ClusterCheck interface {
	Name() string
	Check(ctx context.Context) (bool, Verdict)
}

// ClusterStage evaluates membership checks tier by tier. Every check in a
// tier runs; a failed tier stops later tiers. The chain always continues.
type ClusterStage struct {
	tiers [][]ClusterCheck
	log   logger.Logger
}

// NewClusterStage builds the tiers for role.
func NewClusterStage(role node.Role, runner exec.Runner, cmds Commands, log logger.Logger) *ClusterStage {
	return NewClusterStageWithTiers(TiersFor(role, runner, cmds), log)
}

// NewClusterStageWithTiers creates a stage over explicit tiers.
func NewClusterStageWithTiers(tiers [][]ClusterCheck, log logger.Logger) *ClusterStage {
	if log == nil {
		log = logger.Noop()
	}
	return &ClusterStage{tiers: tiers, log: log}
}

// TiersFor returns the membership tiers a role depends on. Every role needs
// etcd first; the data store tier differs.
func TiersFor(role node.Role, runner exec.Runner, cmds Commands) [][]ClusterCheck {
	etcd := []ClusterCheck{&EtcdCheck{runner: runner, cmds: cmds}}
	store := func(kind string) ClusterCheck {
		return &StoreCheck{runner: runner, cmds: cmds, role: role, kind: kind}
	}

	switch role {
	case node.Sprout, node.Ralf:
		return [][]ClusterCheck{etcd, {store("memcached"), store("chronos")}}
	case node.Homestead:
		return [][]ClusterCheck{etcd, {store("cassandra")}}
	default:
		return [][]ClusterCheck{etcd}
	}
}

// Name implements Stage.
func (s *ClusterStage) Name() string { return "clusters" }

// Evaluate implements Stage.
func (s *ClusterStage) Evaluate(ctx context.Context) (bool, []Verdict) {
	var verdicts []Verdict
	for i, tier := range s.tiers {
		failed := false
		for _, check := range tier {
			ok, v := check.Check(ctx)
			verdicts = append(verdicts, v)
			if !ok {
				failed = true
			}
		}
		if failed {
			s.log.Debug("cluster tier %d failed, skipping later tiers", i+1)
			break
		}
	}
	return true, verdicts
}

// EtcdCheck checks consensus membership. The aggregate must be healthy and
// so must every member the local node can see.
type EtcdCheck struct {
	runner exec.Runner
	cmds   Commands
}

// Name implements ClusterCheck.
func (c *EtcdCheck) Name() string { return CheckEtcd }

// Check implements ClusterCheck.
func (c *EtcdCheck) Check(ctx context.Context) (bool, Verdict) {
	out, err := c.runner.Run(ctx, c.cmds.EtcdHealth)
	if err != nil {
		return false, Verdict{Name: CheckEtcd, Err: errors.Wrap(err, "etcd cluster health failed")}
	}
	status := etcdStatus(out)
	switch status {
	case StatusError:
		return false, Verdict{Name: CheckEtcd, Status: StatusError, Message: msgEtcd}
	case StatusWarning:
		return false, Verdict{Name: CheckEtcd, Status: StatusWarning, Message: msgEtcd}
	default:
		return true, Verdict{Name: CheckEtcd, Status: StatusGood}
	}
}

func etcdStatus(out string) Status {
	if !strings.Contains(out, etcdHealthyMarker) {
		return StatusError
	}
	for _, line := range strings.Split(out, "\n") {
		if m := etcdMemberPattern.FindStringSubmatch(line); m != nil && m[1] != "healthy" {
			return StatusWarning
		}
	}
	return StatusGood
}

// StoreCheck checks one data store cluster (memcached, chronos or
// cassandra) in the cluster manager's state report.
type StoreCheck struct {
	runner exec.Runner
	cmds   Commands
	role   node.Role
	kind   string
}

// Name implements ClusterCheck.
func (c *StoreCheck) Name() string {
	return strings.ToUpper(c.kind) + " CLUSTER"
}

// Check implements ClusterCheck.
func (c *StoreCheck) Check(ctx context.Context) (bool, Verdict) {
	name := c.Name()
	out, err := c.runner.Run(ctx, c.cmds.ClusterState)
	if err != nil {
		return false, Verdict{Name: name, Err: errors.Wrap(err, "cluster state report failed")}
	}

	heading := c.role.Title() + " " + node.Role(c.kind).Title()
	stable, err := clusterStable(out, heading)
	if err != nil {
		return false, Verdict{Name: name, Err: err}
	}
	if !stable {
		return false, Verdict{Name: name, Status: StatusError,
			Message: fmt.Sprintf(msgStore, strings.ToUpper(c.kind))}
	}
	return true, Verdict{Name: name, Status: StatusGood}
}

func clusterStable(out, heading string) (bool, error) {
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if !strings.Contains(line, heading) {
			continue
		}
		if i+clusterStateOffset >= len(lines) {
			return false, errors.New(errors.ErrParse,
				fmt.Sprintf("cluster state report ends right after %q", heading), "")
		}
		return strings.Contains(lines[i+clusterStateOffset], clusterStableMarker), nil
	}
	return false, errors.New(errors.ErrParse,
		fmt.Sprintf("no %q section in cluster state report", heading), "")
}
