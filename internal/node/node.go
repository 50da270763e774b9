// Package node works out which role the local node plays. The role picks the
// cluster checks and the statistics the dashboard shows.
package node

import (
	"context"
	"strings"

	"github.com/rileyhilliard/nodehealth/internal/errors"
	"github.com/rileyhilliard/nodehealth/internal/exec"
)

// Role is a node type.
type Role string

const (
	Sprout    Role = "sprout"
	Homestead Role = "homestead"
	Ralf      Role = "ralf"
)

// Roles lists the supported roles in discovery order. The first role found
// in the discovery output wins.
var Roles = []Role{Sprout, Homestead, Ralf}

// Discovery commands.
const (
	VersionCommand = "clearwater-version"
	BinListCommand = "ls /usr/share/clearwater/bin/"
)

// FallbackVersion is shown when the installed version can't be read.
const FallbackVersion = "Project Clearwater"

// Title returns the role as it appears in cluster-state output ("Sprout").
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// Info describes the discovered node.
type Info struct {
	Role    Role
	Version string
}

// Discover asks the node what it is. It tries the version tool first, which
// also yields the package version, then falls back to listing the installed
// binaries.
func Discover(ctx context.Context, runner exec.Runner) (Info, error) {
	out, err := runner.Run(ctx, VersionCommand)
	if err == nil {
		if role, ok := findRole(out); ok {
			return Info{Role: role, Version: versionFor(out, role)}, nil
		}
	}

	listing, listErr := runner.Run(ctx, BinListCommand)
	if listErr != nil {
		cause := listErr
		if err != nil {
			cause = err
		}
		return Info{}, errors.WrapWithCode(cause, errors.ErrNode,
			"Can't work out what kind of node this is",
			"Check clearwater-version is installed and /usr/share/clearwater/bin exists")
	}
	role, ok := findRole(listing)
	if !ok {
		return Info{}, errors.New(errors.ErrNode,
			"This node is not a sprout, homestead or ralf node",
			"Run nodehealth on a node with one of those roles installed")
	}
	return Info{Role: role, Version: FallbackVersion}, nil
}

func findRole(text string) (Role, bool) {
	for _, r := range Roles {
		if strings.Contains(text, string(r)) {
			return r, true
		}
	}
	return "", false
}

// versionFor returns "v" plus the token following the role's package name,
// e.g. "sprout 1.0-170306" gives "v1.0-170306".
func versionFor(text string, role Role) string {
	fields := strings.Fields(text)
	for i, f := range fields {
		if f == string(role) && i+1 < len(fields) {
			return "v" + fields[i+1]
		}
	}
	return FallbackVersion
}
