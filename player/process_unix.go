//go:build !windows

package player

import (
	"os/exec"
	"syscall"
)

// detachedAttr puts the player in its own process group, so Ctrl+C in the terminal reaches vidshelf only.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

// forceStop kills the player and anything it spawned.
func forceStop(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if pgid, err := syscall.Getpgid(cmd.Process.Pid); err == nil && pgid > 1 {
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
	}
	return cmd.Process.Kill()
}
