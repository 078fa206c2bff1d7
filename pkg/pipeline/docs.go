package pipeline

import (
	"context"

	"github.com/modkit-ci/modkit/pkg/docs"
)

// taskGenerateDocs writes one markdown page per exported function and
// promotes the module overview page to the docs index.
func (r *Runner) taskGenerateDocs(ctx context.Context, bc *BuildContext) error {
	functions := bc.ExportedFunctions
	if len(functions) == 0 && bc.Manifest != nil {
		functions = bc.Manifest.FunctionsToExport
	}

	gen := docs.NewGenerator(&docs.Config{OutputDir: bc.DocsPath})
	return gen.Generate(bc.ModuleName, bc.Version.String(), functions)
}
