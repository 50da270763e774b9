//go:build !unix

package exec

import "os/exec"

// killProcessGroup is a no-op where process groups aren't available; only
// the shell is killed and WaitDelay releases the pipes.
func killProcessGroup(cmd *exec.Cmd) {}
