// Package lock guards a profile run through an exclusive lockfile.
//
// The first line of the file records who took the lock; every child
// process spawned during the run appends its PID on its own line.
package lock

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

type Lock struct {
	file   string
	locked bool
}

func NewLock(file string) *Lock {
	return &Lock{file: file}
}

// TryAcquire creates the lockfile, failing when another process holds it.
func (l *Lock) TryAcquire() bool {
	if l.locked {
		return true
	}
	file, err := os.OpenFile(l.file, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return false
	}
	defer file.Close()
	_, _ = fmt.Fprintln(file, lockOwner())
	l.locked = true
	return true
}

// ForceAcquire removes a lockfile left behind by another run and takes it.
func (l *Lock) ForceAcquire() bool {
	if !l.locked {
		_ = os.Remove(l.file)
	}
	return l.TryAcquire()
}

// HasLocked tells whether this instance owns the lockfile.
func (l *Lock) HasLocked() bool {
	return l.locked
}

// Who returns the owner line of the lockfile.
func (l *Lock) Who() (string, error) {
	content, err := os.ReadFile(l.file)
	if err != nil {
		return "", err
	}
	owner, _, _ := strings.Cut(string(content), "\n")
	return strings.TrimSpace(owner), nil
}

// SetPID appends the PID of a child process to the lockfile.
func (l *Lock) SetPID(pid int) {
	file, err := os.OpenFile(l.file, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = fmt.Fprintln(file, strconv.Itoa(pid))
}

// LastPID returns the most recently recorded child PID.
func (l *Lock) LastPID() (int, error) {
	content, err := os.ReadFile(l.file)
	if err != nil {
		return 0, err
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	for i := len(lines) - 1; i > 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		return strconv.Atoi(line)
	}
	return 0, fmt.Errorf("no child PID recorded in %s", l.file)
}

// IsStale reports whether the last child process recorded in the lockfile
// is gone. A lock without a recorded PID cannot be proven stale.
func (l *Lock) IsStale() bool {
	pid, err := l.LastPID()
	if err != nil {
		return false
	}
	running, err := process.PidExists(int32(pid))
	return err == nil && !running
}

// Release deletes the lockfile when this instance owns it.
func (l *Lock) Release() {
	if !l.locked {
		return
	}
	_ = os.Remove(l.file)
	l.locked = false
}

func lockOwner() string {
	username := "unknown"
	if current, err := user.Current(); err == nil && current.Username != "" {
		username = current.Username
	}
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "localhost"
	}
	return fmt.Sprintf("%s on %s from %s",
		username, time.Now().Format("Mon, 02-Jan-06 15:04:05 MST"), hostname)
}
