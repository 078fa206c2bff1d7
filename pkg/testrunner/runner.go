// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package testrunner

import (
	"context"
	"path/filepath"

	"github.com/modkit-ci/modkit/pkg/errors"
	"github.com/modkit-ci/modkit/pkg/toolrunner"
)

// Runner invokes the external test framework in a fresh subprocess so each
// run starts from a clean module load state.
type Runner struct {
	Binary      string
	Args        []string
	ResultsFile string
}

// New creates a test runner for the given binary.
func New(binary string, args []string, resultsFile string) *Runner {
	if resultsFile == "" {
		resultsFile = "TestResults.xml"
	}
	return &Runner{Binary: binary, Args: args, ResultsFile: resultsFile}
}

// Run executes the test framework against workDir, writes an NUnit-XML
// results file there and returns the parsed summary plus the results path.
// A failing test run is not itself an error here; the caller decides based
// on the summary.
func (r *Runner) Run(ctx context.Context, workDir string) (*Summary, string, error) {
	resultsPath := filepath.Join(workDir, r.ResultsFile)

	args := append([]string{}, r.Args...)
	args = append(args, "--path", workDir, "--output", resultsPath, "--format", "nunit")

	// The test framework exits non-zero when tests fail, which is expected.
	// Only treat the invocation as broken when no results file was produced.
	_, runErr := toolrunner.Run(ctx, workDir, r.Binary, args...)

	summary, parseErr := ParseResults(resultsPath)
	if parseErr != nil {
		if runErr != nil {
			return nil, "", errors.TestError("test framework failed", runErr)
		}
		return nil, "", parseErr
	}

	return summary, resultsPath, nil
}
