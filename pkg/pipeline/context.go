// Package pipeline provides the core build pipeline orchestration.
package pipeline

import (
	"path/filepath"

	"github.com/modkit-ci/modkit/pkg/ciengine"
	"github.com/modkit-ci/modkit/pkg/config"
	"github.com/modkit-ci/modkit/pkg/manifest"
	"github.com/modkit-ci/modkit/pkg/observability"
	"github.com/modkit-ci/modkit/pkg/testrunner"
)

// BuildContext is the state shared by the tasks of one pipeline run.
// It is created when the run starts, populated as tasks execute and
// discarded afterwards. Tasks run strictly in sequence, so no locking
// is needed.
type BuildContext struct {
	// Identity
	ModuleName string
	RunID      string

	// Run parameters
	Engine      ciengine.Engine
	BuildNumber *int // nil means patch 0
	DeployURL   string
	APIKey      string

	// Derived in Init
	Version  manifest.Version
	Manifest *manifest.Info

	// Filesystem locations
	SourcePath   string
	OutputPath   string
	ModuleFolder string // created by Compile
	DocsPath     string
	WorkDir      string

	// Populated by Compile
	ExportedFunctions []string

	// Populated by Test
	TestSummary *testrunner.Summary

	Config   *config.Config
	Logger   observability.Logger
	Registry *Registry
}

// ModulePath returns the output folder the compiled module lives in,
// version-qualified when versioned output is enabled.
func (bc *BuildContext) ModulePath() string {
	base := filepath.Join(bc.OutputPath, bc.ModuleName)
	if bc.Config.Module.VersionedOutput {
		return filepath.Join(base, bc.Version.String())
	}
	return base
}

// PatchNumber returns the patch component for the computed version:
// the build number when one was supplied, otherwise 0.
func (bc *BuildContext) PatchNumber() int {
	if bc.BuildNumber == nil {
		return 0
	}
	return *bc.BuildNumber
}
