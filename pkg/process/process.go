// Package process runs child processes and captures their output.
package process

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrAlreadyStarted is returned when a Process is started twice.
	ErrAlreadyStarted = errors.New("process already started")
	// ErrNotStarted is returned when waiting on or reading a Process that
	// was never started or has not exited yet.
	ErrNotStarted = errors.New("process not started")
)

// Process is a single run of a binary. It cannot be reused.
type Process struct {
	Binary string
	Args   []string
	Dir    string

	cmd      *exec.Cmd
	stdout   bytes.Buffer
	stderr   bytes.Buffer
	exited   bool
	exitCode int
}

// New returns an unstarted Process.
func New(binary string, args ...string) *Process {
	return &Process{Binary: binary, Args: args}
}

// Start launches the process with stdin closed and both output streams
// captured.
func (p *Process) Start() error {
	if p.cmd != nil {
		return ErrAlreadyStarted
	}
	if strings.TrimSpace(p.Binary) == "" {
		return errors.New("process binary is empty")
	}
	p.cmd = exec.Command(p.Binary, p.Args...)
	p.cmd.Dir = p.Dir
	p.cmd.Stdout = &p.stdout
	p.cmd.Stderr = &p.stderr
	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", p.Binary, err)
	}
	return nil
}

// Wait blocks until the process exits. A non-zero exit code is not an error;
// read it with ExitCode.
func (p *Process) Wait() error {
	if p.cmd == nil {
		return ErrNotStarted
	}
	if p.exited {
		return nil
	}
	err := p.cmd.Wait()
	p.exited = true

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		p.exitCode = 0
	case errors.As(err, &exitErr):
		p.exitCode = exitErr.ExitCode()
	default:
		return fmt.Errorf("waiting for %s: %w", p.Binary, err)
	}
	return nil
}

// Run starts the process and waits for it.
func (p *Process) Run() error {
	if err := p.Start(); err != nil {
		return err
	}
	return p.Wait()
}

// Stdout returns everything the process wrote to stdout.
func (p *Process) Stdout() (string, error) {
	if !p.exited {
		return "", ErrNotStarted
	}
	return p.stdout.String(), nil
}

// Stderr returns everything the process wrote to stderr.
func (p *Process) Stderr() (string, error) {
	if !p.exited {
		return "", ErrNotStarted
	}
	return p.stderr.String(), nil
}

// ExitCode returns the exit code once the process has exited.
func (p *Process) ExitCode() (int, error) {
	if !p.exited {
		return 0, ErrNotStarted
	}
	return p.exitCode, nil
}
