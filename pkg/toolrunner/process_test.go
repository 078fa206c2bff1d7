// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package toolrunner_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/modkit-ci/modkit/pkg/toolrunner"
)

func TestNewProcess(t *testing.T) {
	p := toolrunner.NewProcess("echo", "hello")

	if p == nil {
		t.Fatal("NewProcess() returned nil")
	}

	if p.IsRunning() {
		t.Error("new process should not be running")
	}
}

func TestProcessToolNotFound(t *testing.T) {
	p := toolrunner.NewProcess("nonexistent-binary-12345")

	err := p.Start(context.Background())
	if !errors.Is(err, toolrunner.ErrToolNotFound) {
		t.Errorf("expected ErrToolNotFound, got %v", err)
	}
}

func TestProcessDoubleStart(t *testing.T) {
	p := toolrunner.NewProcess("echo")

	ctx := context.Background()
	if err := p.Start(ctx); err != nil {
		t.Skipf("skipping: echo not available: %v", err)
	}

	if err := p.Start(ctx); err != toolrunner.ErrProcessAlreadyRun {
		t.Errorf("expected ErrProcessAlreadyRun, got %v", err)
	}

	if _, err := p.Wait(ctx); err != nil {
		t.Errorf("Wait failed: %v", err)
	}
}

func TestRunCapturesStdout(t *testing.T) {
	out, err := toolrunner.Run(context.Background(), "", "echo", "hello", "world")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if strings.TrimSpace(out) != "hello world" {
		t.Errorf("Unexpected output: %q", out)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	_, err := toolrunner.Run(context.Background(), "", "false")
	if err == nil {
		t.Error("expected error for non-zero exit")
	}
}

func TestAvailable(t *testing.T) {
	if !toolrunner.Available("echo") {
		t.Error("echo should be available")
	}
	if toolrunner.Available("nonexistent-binary-12345") {
		t.Error("nonexistent binary should not be available")
	}
}
