package exec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rileyhilliard/nodehealth/internal/errors"
)

// waitDelay bounds how long Run waits for output pipes after the command
// was killed. Stragglers outside the process group can hold them open.
const waitDelay = 2 * time.Second

// LocalRunner runs commands on this host through the user's shell.
type LocalRunner struct {
	// Shell overrides $SHELL. Defaults to /bin/sh when both are empty.
	Shell string
}

// NewLocalRunner creates a runner using $SHELL, or /bin/sh when unset.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{Shell: os.Getenv("SHELL")}
}

// Run executes command and captures stdout. Stderr is only kept for the
// error message when the command exits non-zero.
func (r *LocalRunner) Run(ctx context.Context, command string) (string, error) {
	shell := r.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	killProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%q stopped: %w", command, ctxErr)
		}
		// Command ran but returned non-zero
		if exitErr, ok := err.(*exec.ExitError); ok {
			return stdout.String(), &ExitError{
				Command: command,
				Code:    exitErr.ExitCode(),
				Stderr:  stderr.String(),
			}
		}
		return "", errors.WrapWithCode(err, errors.ErrDiag,
			"Couldn't run the diagnostic locally",
			"Make sure the command exists and is executable.")
	}

	return stdout.String(), nil
}
