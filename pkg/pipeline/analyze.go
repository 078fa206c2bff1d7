package pipeline

import (
	"context"
	"fmt"

	"github.com/modkit-ci/modkit/pkg/analyzer"
	"github.com/modkit-ci/modkit/pkg/errors"
)

// taskAnalyze runs static analysis against the compiled module folder.
// Any finding fails the pipeline; a clean run is silent.
func (r *Runner) taskAnalyze(ctx context.Context, bc *BuildContext) error {
	findings, err := r.analyzer.Run(ctx, bc.ModuleFolder)
	if err != nil {
		return err
	}
	if len(findings) == 0 {
		return nil
	}

	fmt.Print(analyzer.Format(findings))
	return errors.AnalysisError(fmt.Sprintf("static analysis reported %d findings", len(findings)), nil)
}
