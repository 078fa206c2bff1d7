// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for modkit.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Project Config: ./.modkit.yaml (searched upward from the cwd)
// 3. User Config: ~/.config/modkit/config.yaml
// 4. MODKIT_CONFIG environment variable (explicit path)
package config

// Config represents the complete application configuration.
type Config struct {
	Module    ModuleConfig    `yaml:"module"`
	Packaging PackagingConfig `yaml:"packaging"`
	Analyzer  AnalyzerConfig  `yaml:"analyzer"`
	Tests     TestConfig      `yaml:"tests"`
	Tools     []ToolConfig    `yaml:"tools"`
	Global    GlobalConfig    `yaml:"global"`
}

// ModuleConfig describes the script module being built.
type ModuleConfig struct {
	Name             string   `yaml:"name"`
	SourcePath       string   `yaml:"source_path"`
	OutputPath       string   `yaml:"output_path"`
	DocsPath         string   `yaml:"docs_path"`
	Manifest         string   `yaml:"manifest,omitempty"`          // defaults to <name>.psd1
	InitScript       string   `yaml:"init_script,omitempty"`       // excluded from the verbatim copy
	SourceExtensions []string `yaml:"source_extensions,omitempty"` // exactly two
	VersionedOutput  bool     `yaml:"versioned_output"`
}

// PackagingConfig describes how the compiled module is packaged and pushed.
type PackagingConfig struct {
	Descriptor string `yaml:"descriptor"` // nuspec with a __VERSION__ placeholder
	Tool       string `yaml:"tool"`       // packaging binary, e.g. nuget
	FeedURL    string `yaml:"feed_url,omitempty"`
}

// AnalyzerConfig describes the external static analyzer.
type AnalyzerConfig struct {
	Binary   string   `yaml:"binary"`
	Args     []string `yaml:"args,omitempty"`
	Settings string   `yaml:"settings,omitempty"`
}

// TestConfig describes the external test framework invocation.
type TestConfig struct {
	Binary      string   `yaml:"binary"`
	Args        []string `yaml:"args,omitempty"`
	ResultsFile string   `yaml:"results_file,omitempty"`
}

// ToolConfig is a required external tool with its install command.
// The install command runs when the tool is absent from PATH.
type ToolConfig struct {
	Name    string   `yaml:"name"`
	Install []string `yaml:"install,omitempty"`
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // console, json
}
