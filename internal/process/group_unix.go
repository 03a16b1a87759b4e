//go:build unix

package process

import (
	"errors"
	"os/exec"
	"syscall"
)

// detach puts the child in a process group of its own so that killing it
// also reaches any grandchildren holding its pipes.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killGroup(cmd *exec.Cmd) error {
	err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	if errors.Is(err, syscall.ESRCH) {
		return cmd.Process.Kill()
	}
	return err
}
