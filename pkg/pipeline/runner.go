// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/modkit-ci/modkit/pkg/analyzer"
	"github.com/modkit-ci/modkit/pkg/ciengine"
	"github.com/modkit-ci/modkit/pkg/config"
	"github.com/modkit-ci/modkit/pkg/errors"
	"github.com/modkit-ci/modkit/pkg/observability"
	"github.com/modkit-ci/modkit/pkg/packaging"
	"github.com/modkit-ci/modkit/pkg/testrunner"
)

// Params are the per-run inputs of a pipeline execution.
type Params struct {
	BuildNumber *int // nil: take the CI counter if present, else 0
	Engine      ciengine.Engine
	DeployURL   string
	APIKey      string
	WorkDir     string
}

// Runner executes named pipelines task by task. The first failing task
// aborts the remainder of the run.
type Runner struct {
	cfg      *config.Config
	log      observability.Logger
	registry *Registry

	analyzer *analyzer.Analyzer
	tests    *testrunner.Runner
	uploader *testrunner.Uploader
	packager *packaging.Packager
}

// NewRunner creates a runner from configuration.
func NewRunner(cfg *config.Config, log observability.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		log:      log,
		registry: NewRegistry(),
		analyzer: analyzer.New(cfg.Analyzer.Binary, cfg.Analyzer.Args, cfg.Analyzer.Settings),
		tests:    testrunner.New(cfg.Tests.Binary, cfg.Tests.Args, cfg.Tests.ResultsFile),
		uploader: testrunner.NewUploader(),
		packager: packaging.New(cfg.Packaging.Tool),
	}
}

// tasks returns the task table shared by all pipelines.
func (r *Runner) tasks() map[string]Task {
	return map[string]Task{
		"Init":         {Name: "Init", Run: r.taskInit},
		"Clean":        {Name: "Clean", Requires: []string{"Init"}, Run: r.taskClean},
		"Compile":      {Name: "Compile", Requires: []string{"Init", "Clean"}, Run: r.taskCompile},
		"Analyze":      {Name: "Analyze", Requires: []string{"Compile"}, Run: r.taskAnalyze},
		"Test":         {Name: "Test", Requires: []string{"Compile"}, Run: r.taskTest},
		"GenerateDocs": {Name: "GenerateDocs", Requires: []string{"Compile"}, Run: r.taskGenerateDocs},
		"Deploy":       {Name: "Deploy", Requires: []string{"Test"}, Run: r.taskDeploy},
	}
}

// Execute runs the named pipeline with the given parameters.
func (r *Runner) Execute(ctx context.Context, pipelineName string, params Params) error {
	p, err := Lookup(pipelineName)
	if err != nil {
		return errors.ConfigError("invalid pipeline", err)
	}

	tasks := r.tasks()
	if err := Resolve(p, tasks); err != nil {
		return errors.ConfigError("pipeline resolution failed", err)
	}

	bc := r.newBuildContext(params)
	log := r.log.With(
		observability.String("pipeline", p.Name),
		observability.String("module", bc.ModuleName),
		observability.String("run_id", bc.RunID),
	)
	bc.Logger = log

	log.Info("pipeline started", observability.String("engine", bc.Engine.String()))
	started := time.Now()

	for _, name := range p.Tasks {
		task := tasks[name]
		taskStart := time.Now()
		log.Info("task started", observability.String("task", task.Name))

		if err := task.Run(ctx, bc); err != nil {
			log.Error("task failed",
				observability.String("task", task.Name),
				observability.Err(err),
			)
			return wrapTaskError(task.Name, err)
		}

		log.Info("task finished",
			observability.String("task", task.Name),
			observability.Duration("duration", time.Since(taskStart)),
		)
	}

	log.Info("pipeline finished", observability.Duration("duration", time.Since(started)))
	return nil
}

// newBuildContext assembles the shared context for one run.
func (r *Runner) newBuildContext(params Params) *BuildContext {
	buildNumber := params.BuildNumber
	if buildNumber == nil {
		if n, ok := ciengine.BuildNumberFromEnv(params.Engine); ok {
			buildNumber = &n
		}
	}

	workDir := params.WorkDir
	if workDir == "" {
		workDir = "."
	}

	deployURL := params.DeployURL
	if deployURL == "" {
		deployURL = r.cfg.Packaging.FeedURL
	}

	return &BuildContext{
		ModuleName:  r.cfg.Module.Name,
		RunID:       uuid.NewString(),
		Engine:      params.Engine,
		BuildNumber: buildNumber,
		DeployURL:   deployURL,
		APIKey:      params.APIKey,
		SourcePath:  r.cfg.Module.SourcePath,
		OutputPath:  r.cfg.Module.OutputPath,
		DocsPath:    r.cfg.Module.DocsPath,
		WorkDir:     workDir,
		Config:      r.cfg,
		Logger:      r.log,
		Registry:    r.registry,
	}
}

// wrapTaskError keeps typed pipeline errors as-is and wraps anything else
// as a task failure.
func wrapTaskError(task string, err error) error {
	var perr *errors.PipelineError
	if stderrors.As(err, &perr) {
		return err
	}
	return errors.TaskError(task+" failed", err)
}
