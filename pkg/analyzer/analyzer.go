// Package analyzer invokes the external static analysis tool.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modkit-ci/modkit/pkg/errors"
	"github.com/modkit-ci/modkit/pkg/toolrunner"
)

// Finding is a single analyzer diagnostic.
type Finding struct {
	RuleName   string `json:"ruleName"`
	Severity   string `json:"severity"`
	ScriptName string `json:"scriptName"`
	Line       int    `json:"line"`
	Message    string `json:"message"`
}

// Analyzer wraps the external static analysis binary.
type Analyzer struct {
	Binary   string
	Args     []string
	Settings string
}

// New creates an analyzer for the given binary.
func New(binary string, args []string, settings string) *Analyzer {
	return &Analyzer{Binary: binary, Args: args, Settings: settings}
}

// Run analyzes the given path and returns all findings. The analyzer is
// expected to emit a JSON array of findings on stdout; an empty output
// means a clean result.
func (a *Analyzer) Run(ctx context.Context, path string) ([]Finding, error) {
	args := append([]string{}, a.Args...)
	args = append(args, "--path", path)
	if a.Settings != "" {
		args = append(args, "--settings", a.Settings)
	}

	out, err := toolrunner.Run(ctx, "", a.Binary, args...)
	if err != nil {
		return nil, errors.AnalysisError("static analysis tool failed", err)
	}

	out = strings.TrimSpace(out)
	if out == "" || out == "null" {
		return nil, nil
	}

	var findings []Finding
	if err := json.Unmarshal([]byte(out), &findings); err != nil {
		return nil, errors.AnalysisError("failed to parse analyzer output", err)
	}
	return findings, nil
}

// Format renders findings for terminal output, one per line.
func Format(findings []Finding) string {
	var b strings.Builder
	for _, f := range findings {
		fmt.Fprintf(&b, "%s: %s:%d [%s] %s\n", f.Severity, f.ScriptName, f.Line, f.RuleName, f.Message)
	}
	return b.String()
}
