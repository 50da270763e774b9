//go:build unix

package exec

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts the command in its own process group and makes
// cancellation signal the whole group, so grandchildren die with the shell.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
