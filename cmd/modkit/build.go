// Package main provides the modkit CLI application.
package main

import (
	"github.com/spf13/cobra"

	"github.com/modkit-ci/modkit/pkg/pipeline"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the module and generate documentation",
	Long: `Run the Build pipeline: Init, Clean, Compile, GenerateDocs.

The module sources are concatenated into a single module file, the
manifest is stamped with the computed version and markdown reference
pages are generated for every exported function.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, pipeline.Build.Name)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
