// Package config handles configuration loading and validation
package config

import (
	"fmt"
	"strings"
)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}

	if err := c.Module.Validate(); err != nil {
		return fmt.Errorf("module config: %w", err)
	}

	if err := c.Analyzer.Validate(); err != nil {
		return fmt.Errorf("analyzer config: %w", err)
	}

	if err := c.Tests.Validate(); err != nil {
		return fmt.Errorf("tests config: %w", err)
	}

	for i, tool := range c.Tools {
		if tool.Name == "" {
			return fmt.Errorf("tools[%d]: name is required", i)
		}
	}

	if err := c.Global.Validate(); err != nil {
		return fmt.Errorf("global config: %w", err)
	}

	return nil
}

// Validate validates the module configuration.
func (m *ModuleConfig) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("module name is required")
	}
	if m.SourcePath == "" {
		return fmt.Errorf("source_path is required")
	}
	if m.OutputPath == "" {
		return fmt.Errorf("output_path is required")
	}
	if len(m.SourceExtensions) != 2 {
		return fmt.Errorf("source_extensions must list exactly 2 extensions, got %d", len(m.SourceExtensions))
	}
	for _, ext := range m.SourceExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("source extension %q must start with a dot", ext)
		}
	}
	return nil
}

// Validate validates the analyzer configuration.
func (a *AnalyzerConfig) Validate() error {
	if a.Binary == "" {
		return fmt.Errorf("analyzer binary is required")
	}
	return nil
}

// Validate validates the test configuration.
func (t *TestConfig) Validate() error {
	if t.Binary == "" {
		return fmt.Errorf("test binary is required")
	}
	return nil
}

// Validate validates the global configuration.
func (g *GlobalConfig) Validate() error {
	switch g.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %q", g.LogLevel)
	}
	switch g.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log_format: %q", g.LogFormat)
	}
	return nil
}
