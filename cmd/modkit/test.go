// Package main provides the modkit CLI application.
package main

import (
	"github.com/spf13/cobra"

	"github.com/modkit-ci/modkit/pkg/pipeline"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Compile, analyze and test the module",
	Long: `Run the BuildAndTest pipeline: Init, Clean, Compile, Analyze, Test.

Static analysis findings or failing tests abort the pipeline. On
AppVeyor the NUnit results file is uploaded to the job endpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, pipeline.BuildAndTest.Name)
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}
