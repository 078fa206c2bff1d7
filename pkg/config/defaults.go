// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

// DefaultConfig returns the default configuration.
// These values are used when no config file is present.
func DefaultConfig() *Config {
	cfg := &Config{
		Module: ModuleConfig{
			Name:            "Module",
			SourcePath:      "source",
			OutputPath:      "output",
			DocsPath:        "docs",
			VersionedOutput: true,
		},
		Packaging: PackagingConfig{
			Tool: "nuget",
		},
		Analyzer: AnalyzerConfig{
			Binary: "scriptanalyzer",
		},
		Tests: TestConfig{
			Binary: "pester",
		},
		Global: DefaultGlobalConfig(),
	}
	applyDefaults(cfg)
	return cfg
}

// DefaultGlobalConfig returns default global configuration.
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// applyDefaults fills in derived or omitted fields.
func applyDefaults(cfg *Config) {
	if cfg.Module.Manifest == "" && cfg.Module.Name != "" {
		cfg.Module.Manifest = cfg.Module.Name + ".psd1"
	}
	if cfg.Module.InitScript == "" {
		cfg.Module.InitScript = "InitializeModule.ps1"
	}
	if len(cfg.Module.SourceExtensions) == 0 {
		cfg.Module.SourceExtensions = []string{".ps1", ".psm1"}
	}
	if cfg.Packaging.Tool == "" {
		cfg.Packaging.Tool = "nuget"
	}
	if cfg.Packaging.Descriptor == "" && cfg.Module.Name != "" {
		cfg.Packaging.Descriptor = cfg.Module.Name + ".nuspec"
	}
	if cfg.Tests.ResultsFile == "" {
		cfg.Tests.ResultsFile = "TestResults.xml"
	}
	if cfg.Global.LogLevel == "" {
		cfg.Global.LogLevel = "info"
	}
	if cfg.Global.LogFormat == "" {
		cfg.Global.LogFormat = "console"
	}
}
