// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package toolrunner runs external build tools as subprocesses.
package toolrunner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// Process manages a single external tool subprocess.
type Process struct {
	mu sync.RWMutex

	cmd    *exec.Cmd
	binary string
	args   []string
	dir    string

	started bool
	exited  bool

	// Output buffers
	stdoutBuf bytes.Buffer
	stderrBuf bytes.Buffer

	// Wait channel
	waitCh   chan error
	exitCode int
}

// NewProcess creates a new process for the given binary and arguments.
func NewProcess(binary string, args ...string) *Process {
	return &Process{
		binary: binary,
		args:   args,
		waitCh: make(chan error, 1),
	}
}

// WithDir sets the working directory for the process.
func (p *Process) WithDir(dir string) *Process {
	p.dir = dir
	return p
}

// Start starts the process.
func (p *Process) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrProcessAlreadyRun
	}

	// Check if the binary exists before forking
	if _, err := exec.LookPath(p.binary); err != nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, p.binary)
	}

	p.cmd = exec.CommandContext(ctx, p.binary, p.args...)
	p.cmd.Dir = p.dir

	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	stderr, err := p.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := p.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", p.binary, err)
	}

	p.started = true

	// Capture output incrementally. cmd.Wait closes the pipes, so it must
	// not run until both readers have drained them.
	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		p.captureOutput(stdout, &p.stdoutBuf)
	}()
	go func() {
		defer readers.Done()
		p.captureOutput(stderr, &p.stderrBuf)
	}()

	go func() {
		readers.Wait()
		err := p.cmd.Wait()
		p.mu.Lock()
		p.exited = true
		if p.cmd.ProcessState != nil {
			p.exitCode = p.cmd.ProcessState.ExitCode()
		}
		p.mu.Unlock()
		p.waitCh <- err
	}()

	return nil
}

// captureOutput captures output from a reader into a buffer.
// Uses raw reads instead of bufio.Scanner to avoid line length limitations.
func (p *Process) captureOutput(r io.Reader, buf *bytes.Buffer) {
	copyBuf := make([]byte, 32*1024)
	for {
		n, err := r.Read(copyBuf)
		if n > 0 {
			p.mu.Lock()
			buf.Write(copyBuf[:n])
			p.mu.Unlock()
		}
		if err != nil {
			break
		}
	}
}

// Wait waits for the process to complete and returns the captured stdout.
func (p *Process) Wait(ctx context.Context) (string, error) {
	select {
	case err := <-p.waitCh:
		p.mu.RLock()
		output := p.stdoutBuf.String()
		stderr := p.stderrBuf.String()
		exitCode := p.exitCode
		p.mu.RUnlock()

		if err != nil {
			if ctx.Err() != nil {
				return "", ErrTimeout
			}
			if stderr != "" {
				return output, fmt.Errorf("%s failed (exit code %d): %s", p.binary, exitCode, stderr)
			}
			return output, fmt.Errorf("%s failed (exit code %d): %w", p.binary, exitCode, err)
		}
		return output, nil

	case <-ctx.Done():
		_ = p.Kill()
		return "", ErrTimeout
	}
}

// Kill forcefully kills the process.
func (p *Process) Kill() error {
	p.mu.RLock()
	if !p.started || p.exited {
		p.mu.RUnlock()
		return nil
	}
	cmd := p.cmd
	p.mu.RUnlock()

	if cmd.Process == nil {
		return nil
	}

	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("failed to kill process: %w", err)
	}

	return nil
}

// IsRunning checks if the process is running.
func (p *Process) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started && !p.exited
}

// ExitCode returns the process exit code.
func (p *Process) ExitCode() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.exitCode
}

// Stdout returns the captured stdout.
func (p *Process) Stdout() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stdoutBuf.String()
}

// Stderr returns the captured stderr.
func (p *Process) Stderr() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stderrBuf.String()
}

// Run is a convenience wrapper that starts the process, waits for it to
// finish and returns the captured stdout.
func Run(ctx context.Context, dir, binary string, args ...string) (string, error) {
	p := NewProcess(binary, args...).WithDir(dir)
	if err := p.Start(ctx); err != nil {
		return "", err
	}
	return p.Wait(ctx)
}

// Available reports whether the binary can be resolved on PATH.
func Available(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}
