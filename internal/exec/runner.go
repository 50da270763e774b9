// Package exec runs the diagnostic commands the health checks and detail
// views parse. Commands are shell strings so pipes and redirects work the same
// whether they run on this host or over SSH.
package exec

import (
	"context"
	"fmt"
	"strings"
)

// Runner executes a diagnostic command and returns its stdout.
// A non-zero exit status is reported as an error; the output is not parsed.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%q exited with status %d", e.Command, e.Code)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}
