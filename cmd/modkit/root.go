// Package main provides the modkit CLI application.
package main

import (
	"github.com/spf13/cobra"

	"github.com/modkit-ci/modkit/pkg/ciengine"
	"github.com/modkit-ci/modkit/pkg/config"
	"github.com/modkit-ci/modkit/pkg/observability"
	"github.com/modkit-ci/modkit/pkg/pipeline"
	"github.com/modkit-ci/modkit/pkg/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modkit",
	Short: "Script module build pipeline",
	Long: `modkit packages, analyzes, tests, documents and deploys a script
module through a fixed task pipeline, locally or from CI.`,
	Version:       version.FullString(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// rootFlags holds the flags shared by all pipeline commands
type rootFlags struct {
	buildNumber int
	ciEngine    string
	deployURL   string
	apiKey      string
	configPath  string
	workDir     string
	logLevel    string
	logFormat   string
}

var rootOpts rootFlags

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&rootOpts.buildNumber, "build-number", -1, "Build number used as the version patch component (-1: take it from the CI engine)")
	pf.StringVar(&rootOpts.ciEngine, "ci-engine", "", "CI engine: local, bamboo or appveyor (default: auto-detect)")
	pf.StringVar(&rootOpts.deployURL, "deploy-url", "", "Feed URL to push the package to")
	pf.StringVar(&rootOpts.apiKey, "api-key", "", "API key for the package feed")
	pf.StringVarP(&rootOpts.configPath, "config", "c", "", "Path to configuration file")
	pf.StringVar(&rootOpts.workDir, "workdir", ".", "Working directory for test results and packages")
	pf.StringVar(&rootOpts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&rootOpts.logFormat, "log-format", "", "Log format: console or json")
}

// runPipeline loads configuration, builds the runner and executes the named
// pipeline. All three pipeline commands funnel through here.
func runPipeline(cmd *cobra.Command, pipelineName string) error {
	var cfg *config.Config
	var err error
	if rootOpts.configPath != "" {
		cfg, err = config.Load(rootOpts.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if rootOpts.logLevel != "" {
		cfg.Global.LogLevel = rootOpts.logLevel
	}
	if rootOpts.logFormat != "" {
		cfg.Global.LogFormat = rootOpts.logFormat
	}
	log := observability.NewLogger(cfg.Global.LogLevel, cfg.Global.LogFormat)

	engine, err := ciengine.Parse(rootOpts.ciEngine)
	if err != nil {
		return err
	}

	params := pipeline.Params{
		Engine:    engine,
		DeployURL: rootOpts.deployURL,
		APIKey:    rootOpts.apiKey,
		WorkDir:   rootOpts.workDir,
	}
	if rootOpts.buildNumber >= 0 {
		n := rootOpts.buildNumber
		params.BuildNumber = &n
	}

	runner := pipeline.NewRunner(cfg, log)
	return runner.Execute(cmd.Context(), pipelineName, params)
}
