// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package docs generates markdown reference pages for a compiled module.
package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modkit-ci/modkit/pkg/errors"
)

// Generator generates module documentation.
type Generator struct {
	config *Config
}

// Config defines generator configuration.
type Config struct {
	OutputDir string
}

// NewGenerator creates a new documentation generator.
func NewGenerator(config *Config) *Generator {
	if config == nil {
		config = &Config{OutputDir: "./docs"}
	}
	return &Generator{config: config}
}

// Generate writes one markdown page per exported function plus the module
// overview, then promotes the overview to index.md in place of the
// generated index stub.
func (g *Generator) Generate(module, version string, functions []string) error {
	if err := g.GeneratePages(module, version, functions); err != nil {
		return err
	}
	return g.Finalize(module)
}

// GeneratePages writes the per-function pages, the index stub and the
// module overview page.
func (g *Generator) GeneratePages(module, version string, functions []string) error {
	if err := os.MkdirAll(g.config.OutputDir, 0755); err != nil {
		return errors.TaskError("failed to create docs folder", err)
	}

	r := NewMarkdownRenderer()

	for _, fn := range functions {
		page := r.RenderFunction(module, version, fn)
		path := filepath.Join(g.config.OutputDir, fn+".md")
		if err := os.WriteFile(path, []byte(page), 0644); err != nil {
			return errors.TaskError(fmt.Sprintf("failed to write %s", path), err)
		}
	}

	stub := filepath.Join(g.config.OutputDir, "index.md")
	if err := os.WriteFile(stub, []byte(r.RenderIndexStub(module)), 0644); err != nil {
		return errors.TaskError("failed to write index stub", err)
	}

	overview := filepath.Join(g.config.OutputDir, module+".md")
	if err := os.WriteFile(overview, []byte(r.RenderOverview(module, version, functions)), 0644); err != nil {
		return errors.TaskError("failed to write overview page", err)
	}

	return nil
}

// Finalize deletes the generated index stub and renames the module
// overview page to index.md.
func (g *Generator) Finalize(module string) error {
	stub := filepath.Join(g.config.OutputDir, "index.md")
	if err := os.Remove(stub); err != nil && !os.IsNotExist(err) {
		return errors.TaskError("failed to remove index stub", err)
	}

	overview := filepath.Join(g.config.OutputDir, module+".md")
	index := filepath.Join(g.config.OutputDir, "index.md")
	if err := os.Rename(overview, index); err != nil {
		return errors.TaskError("failed to promote overview to index", err)
	}

	return nil
}

// MarkdownRenderer renders markdown documentation pages.
type MarkdownRenderer struct {
	builder strings.Builder
}

// NewMarkdownRenderer creates a new markdown renderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// RenderFunction renders the reference page for one exported function.
func (r *MarkdownRenderer) RenderFunction(module, version, fn string) string {
	r.builder.Reset()
	r.writeFrontMatter(module, version)
	r.writeHeader(fn, 1)
	r.writeHeader("Synopsis", 2)
	r.writeRaw(fmt.Sprintf("Exported by the %s module.", module))
	r.writeNewline()
	r.writeHeader("Syntax", 2)
	r.writeRaw("```\n" + fn + "\n```")
	r.writeNewline()
	return r.builder.String()
}

// RenderOverview renders the module overview page.
func (r *MarkdownRenderer) RenderOverview(module, version string, functions []string) string {
	r.builder.Reset()
	r.writeFrontMatter(module, version)
	r.writeHeader(module, 1)
	r.writeRaw(fmt.Sprintf("Reference documentation for %s %s.", module, version))
	r.writeNewline()
	r.writeHeader("Functions", 2)
	for _, fn := range functions {
		r.writeRaw(fmt.Sprintf("- [%s](%s.md)", fn, fn))
	}
	r.writeNewline()
	return r.builder.String()
}

// RenderIndexStub renders the placeholder index the generator emits before
// the overview page replaces it.
func (r *MarkdownRenderer) RenderIndexStub(module string) string {
	r.builder.Reset()
	r.writeHeader("Index", 1)
	r.writeRaw(fmt.Sprintf("Generated index for %s.", module))
	return r.builder.String()
}

func (r *MarkdownRenderer) writeFrontMatter(module, version string) {
	r.builder.WriteString("---\n")
	r.builder.WriteString("module: " + module + "\n")
	r.builder.WriteString("version: " + version + "\n")
	r.builder.WriteString("---\n\n")
}

func (r *MarkdownRenderer) writeHeader(text string, level int) {
	r.builder.WriteString(strings.Repeat("#", level))
	r.builder.WriteString(" ")
	r.builder.WriteString(text)
	r.builder.WriteString("\n\n")
}

func (r *MarkdownRenderer) writeRaw(text string) {
	r.builder.WriteString(text)
	r.builder.WriteString("\n")
}

func (r *MarkdownRenderer) writeNewline() {
	r.builder.WriteString("\n")
}
