package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/modkit-ci/modkit/pkg/errors"
	"github.com/modkit-ci/modkit/pkg/manifest"
	"github.com/modkit-ci/modkit/pkg/observability"
	"github.com/modkit-ci/modkit/pkg/toolrunner"
)

// taskInit parses the source manifest, derives the build version and makes
// sure every required external tool is installed.
func (r *Runner) taskInit(ctx context.Context, bc *BuildContext) error {
	manifestPath := filepath.Join(bc.SourcePath, r.cfg.Module.Manifest)
	info, err := manifest.Parse(manifestPath)
	if err != nil {
		return err
	}
	bc.Manifest = info

	// Patch component comes from the build number; major/minor from the manifest.
	bc.Version = info.ModuleVersion.WithPatch(bc.PatchNumber())
	bc.Logger.Info("version computed", observability.String("version", bc.Version.String()))

	for _, tool := range r.cfg.Tools {
		if toolrunner.Available(tool.Name) {
			continue
		}
		if len(tool.Install) == 0 {
			return errors.DependencyError(
				fmt.Sprintf("required tool %s is missing and has no install command", tool.Name), nil)
		}

		bc.Logger.Info("installing required tool", observability.String("tool", tool.Name))
		if _, err := toolrunner.Run(ctx, "", tool.Install[0], tool.Install[1:]...); err != nil {
			return errors.DependencyError(
				fmt.Sprintf("failed to install required tool %s", tool.Name), err)
		}
		if !toolrunner.Available(tool.Name) {
			return errors.DependencyError(
				fmt.Sprintf("tool %s still missing after install", tool.Name), nil)
		}
	}

	return nil
}
