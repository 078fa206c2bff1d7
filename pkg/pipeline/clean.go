package pipeline

import (
	"context"
	"os"

	"github.com/modkit-ci/modkit/pkg/errors"
)

// taskClean deregisters any loaded instance of the module and deletes the
// previously compiled output folder. A missing folder is not an error, so
// Clean can run any number of times.
func (r *Runner) taskClean(ctx context.Context, bc *BuildContext) error {
	bc.Registry.Unload(bc.ModuleName)

	if err := os.RemoveAll(bc.ModulePath()); err != nil {
		return errors.TaskError("failed to delete output folder", err)
	}
	return nil
}
