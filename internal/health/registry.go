package health

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rileyhilliard/nodehealth/internal/errors"
	"github.com/rileyhilliard/nodehealth/internal/exec"
)

const (
	diskDetailPrefix = "Your Disk use is higher than our suggested cap, consider consulting support.\n" +
		"The use is displayed below:\n\n"
	etcdDetailHeader = "Please see the cluster health stats below:\n"
)

var (
	etcdMemberListPattern = regexp.MustCompile(`(.*?): name=(.*?) `)
	etcdMemberIDPattern   = regexp.MustCompile(`member (.*?) `)
)

// DetailFunc produces the text of a check's detail view.
type DetailFunc func(ctx context.Context) (string, error)

// Registry maps the digits shown beside failing checks to the checks, and
// each check name to the diagnostic behind its detail view. It is owned by
// the dashboard's event loop.
type Registry struct {
	providers map[string]DetailFunc
	failing   []string
}

// NewRegistry binds the stock detail diagnostics.
func NewRegistry(runner exec.Runner, cmds Commands) *Registry {
	run := func(cmd string) DetailFunc {
		return func(ctx context.Context) (string, error) {
			return runner.Run(ctx, cmd)
		}
	}

	r := &Registry{providers: make(map[string]DetailFunc)}
	r.Bind(CheckCPU, run(cmds.Top))
	r.Bind(CheckDisk, func(ctx context.Context) (string, error) {
		out, err := runner.Run(ctx, cmds.DiskFree)
		if err != nil {
			return "", err
		}
		return diskDetailPrefix + out, nil
	})
	r.Bind(CheckEtcd, func(ctx context.Context) (string, error) {
		return etcdDetail(ctx, runner, cmds)
	})
	r.Bind(CheckMemcached, run(cmds.ClusterState))
	r.Bind(CheckChronos, run(cmds.ClusterState))
	r.Bind(CheckCassandra, run(cmds.ClusterState))
	r.Bind(CheckNode, run(cmds.NodeStatus))
	return r
}

// Bind sets the detail provider for a check name.
func (r *Registry) Bind(name string, fn DetailFunc) {
	r.providers[name] = fn
}

// Update replaces the failure index.
func (r *Registry) Update(failing []string) {
	r.failing = append([]string(nil), failing...)
}

// Has reports whether i is a valid failure index.
func (r *Registry) Has(i int) bool {
	return i >= 0 && i < len(r.failing)
}

// Name returns the check at failure index i.
func (r *Registry) Name(i int) (string, bool) {
	if !r.Has(i) {
		return "", false
	}
	return r.failing[i], true
}

// Failing returns a copy of the current failure index.
func (r *Registry) Failing() []string {
	return append([]string(nil), r.failing...)
}

// Detail runs the diagnostic bound to name. Nothing is cached; the output
// reflects the node at the time of the call.
func (r *Registry) Detail(ctx context.Context, name string) (string, error) {
	fn, ok := r.providers[name]
	if !ok {
		return "", errors.New(errors.ErrDiag, fmt.Sprintf("no detail view for %s", name), "")
	}
	return fn(ctx)
}

// etcdDetail shows cluster health with member ids swapped for member names
// and each line cut to its first four words.
func etcdDetail(ctx context.Context, runner exec.Runner, cmds Commands) (string, error) {
	health, err := runner.Run(ctx, cmds.EtcdHealth)
	if err != nil {
		return "", err
	}
	members, err := runner.Run(ctx, cmds.EtcdMembers)
	if err != nil {
		return "", err
	}

	names := make(map[string]string)
	for _, line := range strings.Split(members, "\n") {
		if m := etcdMemberListPattern.FindStringSubmatch(line); m != nil {
			names[m[1]] = m[2]
		}
	}

	var b strings.Builder
	b.WriteString(etcdDetailHeader)
	for _, line := range strings.Split(health, "\n") {
		if m := etcdMemberIDPattern.FindStringSubmatchIndex(line); m != nil {
			id := line[m[2]:m[3]]
			if name, ok := names[id]; ok {
				line = line[:m[0]] + "member " + name + " " + line[m[1]:]
			}
		}
		fields := strings.Fields(line)
		if len(fields) > 4 {
			fields = fields[:4]
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimRight(strings.Join(fields, " "), ":"))
	}
	return b.String(), nil
}
