//go:build !windows

// Package process terminates browser process trees.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group of pid (negative PID),
// reaching Chrome's helper processes.
func KillProcessGroup(pid int) {
	// Best effort: the launcher's own Kill follows.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
