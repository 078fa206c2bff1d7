package pipeline

import (
	"context"
	"path/filepath"

	"github.com/modkit-ci/modkit/pkg/observability"
)

// taskDeploy packs the compiled module folder using the stamped descriptor
// and pushes the archive to the configured feed.
func (r *Runner) taskDeploy(ctx context.Context, bc *BuildContext) error {
	descriptor := filepath.Join(bc.ModuleFolder, r.cfg.Packaging.Descriptor)

	archive, err := r.packager.Pack(ctx, descriptor, bc.ModuleName, bc.Version.String(), bc.WorkDir)
	if err != nil {
		return err
	}
	bc.Logger.Info("package created", observability.String("archive", archive))

	return r.packager.Push(ctx, archive, bc.DeployURL, bc.APIKey)
}
