package pipeline

import (
	"context"
	"fmt"

	"github.com/modkit-ci/modkit/pkg/ciengine"
	"github.com/modkit-ci/modkit/pkg/errors"
	"github.com/modkit-ci/modkit/pkg/observability"
)

// taskTest registers the compiled module, runs the test framework and, on
// AppVeyor, uploads the results file to the job endpoint. Skipped and
// pending tests never fail the run; failed tests do.
func (r *Runner) taskTest(ctx context.Context, bc *BuildContext) error {
	bc.Registry.Load(bc.ModuleName, bc.ModuleFolder, bc.Version)

	summary, resultsPath, err := r.tests.Run(ctx, bc.WorkDir)
	if err != nil {
		return err
	}
	bc.TestSummary = summary

	bc.Logger.Info("tests finished",
		observability.Int("total", summary.Total),
		observability.Int("passed", summary.Passed),
		observability.Int("failed", summary.Failed),
		observability.Int("skipped", summary.Skipped),
	)

	if bc.Engine == ciengine.AppVeyor {
		if err := r.uploader.Upload(ctx, resultsPath); err != nil {
			return err
		}
	}

	if summary.Failed > 0 {
		return errors.TestError(fmt.Sprintf("%d tests failed", summary.Failed), nil)
	}
	return nil
}
