// Package main provides the modkit CLI application.
package main

import (
	"github.com/spf13/cobra"

	"github.com/modkit-ci/modkit/pkg/pipeline"
)

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Compile, test and publish the module",
	Long: `Run the BuildAndDeploy pipeline: Init, Clean, Compile, Analyze,
Test, Deploy, Clean.

The compiled module is packed using the packaging descriptor and pushed
to the feed given by --deploy-url with --api-key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, pipeline.BuildAndDeploy.Name)
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
