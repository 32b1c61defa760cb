// Package shell runs child processes, forwarding termination signals to
// them so restic can clean up its repository locks.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"

	"github.com/oklog/run"
)

// ExitError reports the exit status of a child process. A run interrupted
// by a signal maps to the shell convention of 128+signal.
type ExitError struct {
	Code int
	err  error
}

func (e *ExitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.err
}

// Command holds everything needed to run one child process.
type Command struct {
	Binary    string
	Arguments []string
	Shell     bool // run Binary as a command line through the shell
	Environ   []string
	Dir       string
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	SetPID    func(pid int) // called with the child PID right after the fork
}

// NewCommand runs an executable directly, no shell involved.
func NewCommand(binary string, arguments []string) *Command {
	return &Command{
		Binary:    binary,
		Arguments: arguments,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// NewShellCommand runs a full command line through sh -c (cmd.exe /C on
// Windows). This is how the run-before and run-after hooks are launched.
func NewShellCommand(commandLine string) *Command {
	return &Command{
		Binary: commandLine,
		Shell:  true,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run starts the child process and waits for it. The environment of the
// child is the current environment plus Environ.
func (c *Command) Run() error {
	name, arguments, err := c.commandLine()
	if err != nil {
		return err
	}

	cmd := exec.Command(name, arguments...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	cmd.Env = os.Environ()
	if len(c.Environ) > 0 {
		cmd.Env = append(cmd.Env, c.Environ...)
	}

	if err := cmd.Start(); err != nil {
		return err
	}
	if c.SetPID != nil {
		c.SetPID(cmd.Process.Pid)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var group run.Group
	group.Add(func() error {
		return cmd.Wait()
	}, func(err error) {
		signal := os.Signal(syscall.SIGTERM)
		var signalErr run.SignalError
		if errors.As(err, &signalErr) {
			signal = signalErr.Signal
		}
		_ = cmd.Process.Signal(signal)
	})
	group.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	return asExitError(group.Run())
}

// commandLine resolves the shell to run the command through, if any.
func (c *Command) commandLine() (string, []string, error) {
	if !c.Shell {
		return c.Binary, c.Arguments, nil
	}
	if runtime.GOOS == "windows" {
		shell, err := exec.LookPath("cmd.exe")
		if err != nil {
			return "", nil, errors.New("cannot find shell executable (cmd.exe) in path")
		}
		return shell, append([]string{"/C", c.Binary}, c.Arguments...), nil
	}
	shell, err := exec.LookPath("sh")
	if err != nil {
		return "", nil, errors.New("cannot find shell executable (sh) in path")
	}
	commandLine := strings.Join(append([]string{c.Binary}, c.Arguments...), " ")
	return shell, []string{"-c", commandLine}, nil
}

func asExitError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), err: err}
	}
	var signalErr run.SignalError
	if errors.As(err, &signalErr) {
		code := 130
		if signal, ok := signalErr.Signal.(syscall.Signal); ok {
			code = 128 + int(signal)
		}
		return &ExitError{Code: code, err: err}
	}
	return err
}
