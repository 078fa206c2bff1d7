// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package pipeline_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/modkit-ci/modkit/pkg/ciengine"
	"github.com/modkit-ci/modkit/pkg/config"
	"github.com/modkit-ci/modkit/pkg/errors"
	"github.com/modkit-ci/modkit/pkg/manifest"
	"github.com/modkit-ci/modkit/pkg/observability"
	"github.com/modkit-ci/modkit/pkg/pipeline"
)

const (
	classFragment   = "class Thing {\n    [string] $Name\n}"
	privateFragment = "function ConvertToThing {\n    param($Value)\n}"
	getFragment     = "function Get-Thing {\n    [CmdletBinding()]\n    param()\n}"
	setFragment     = "function Set-Thing {\n    [CmdletBinding()]\n    param()\n}"
)

func mustVersion(t *testing.T, s string) manifest.Version {
	t.Helper()
	v, err := manifest.ParseVersion(s)
	if err != nil {
		t.Fatalf("bad version %q: %v", s, err)
	}
	return v
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// writeStub creates an executable shell script that prints stdout, writes
// an optional results file into its working directory and exits with code.
func writeStub(t *testing.T, name, stdout, resultsFile, resultsContent string, exitCode int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	if stdout != "" {
		b.WriteString("cat <<'STUBEOF'\n" + stdout + "\nSTUBEOF\n")
	}
	if resultsFile != "" {
		b.WriteString("cat > " + resultsFile + " <<'STUBEOF'\n" + resultsContent + "\nSTUBEOF\n")
	}
	b.WriteString("exit " + strconv.Itoa(exitCode) + "\n")

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(b.String()), 0755); err != nil {
		t.Fatalf("Failed to write stub %s: %v", name, err)
	}
	return path
}

func passingResults() string {
	return `<?xml version="1.0" encoding="utf-8"?>
<test-results name="Pester" total="5" errors="0" failures="0" not-run="1" ignored="0" skipped="0"></test-results>`
}

func failingResults(failures int) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<test-results name="Pester" total="5" errors="0" failures="` + strconv.Itoa(failures) + `" not-run="0" ignored="0" skipped="0"></test-results>`
}

// newTestConfig lays out a small module source tree and returns a config
// pointing at it. Stub binaries stand in for the external tools.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "source")

	writeFile(t, filepath.Join(src, "Classes", "01.Thing.ps1"), classFragment)
	writeFile(t, filepath.Join(src, "Private", "ConvertToThing.ps1"), privateFragment)
	writeFile(t, filepath.Join(src, "Public", "Get-Thing.ps1"), getFragment)
	writeFile(t, filepath.Join(src, "Public", "Set-Thing.ps1"), setFragment)
	writeFile(t, filepath.Join(src, "Sample.psd1"), `@{
    RootModule = 'Sample.psm1'
    ModuleVersion = '1.3.0'
    FunctionsToExport = @()
}
`)
	writeFile(t, filepath.Join(src, "Sample.nuspec"), `<?xml version="1.0"?>
<package>
  <metadata>
    <id>Sample</id>
    <version>__VERSION__</version>
  </metadata>
</package>
`)
	writeFile(t, filepath.Join(src, "InitializeModule.ps1"), "# loader stub, never shipped")
	writeFile(t, filepath.Join(src, "LICENSE"), "MIT")
	writeFile(t, filepath.Join(src, "en-US", "about_Sample.help.txt"), "about_Sample")

	cfg := &config.Config{
		Module: config.ModuleConfig{
			Name:             "Sample",
			SourcePath:       src,
			OutputPath:       filepath.Join(root, "output"),
			DocsPath:         filepath.Join(root, "docs"),
			Manifest:         "Sample.psd1",
			InitScript:       "InitializeModule.ps1",
			SourceExtensions: []string{".ps1", ".psm1"},
			VersionedOutput:  true,
		},
		Packaging: config.PackagingConfig{
			Descriptor: "Sample.nuspec",
			Tool:       writeStub(t, "stub-nuget.sh", "", "", "", 0),
		},
		Analyzer: config.AnalyzerConfig{
			Binary: writeStub(t, "stub-analyzer.sh", "[]", "", "", 0),
		},
		Tests: config.TestConfig{
			Binary:      writeStub(t, "stub-pester.sh", "", "TestResults.xml", passingResults(), 0),
			ResultsFile: "TestResults.xml",
		},
		Global: config.GlobalConfig{LogLevel: "error", LogFormat: "console"},
	}
	return cfg
}

func intPtr(n int) *int { return &n }

func clearCIEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APPVEYOR", "")
	t.Setenv("APPVEYOR_BUILD_NUMBER", "")
	t.Setenv("APPVEYOR_JOB_ID", "")
	t.Setenv("bamboo_buildNumber", "")
	t.Setenv("BAMBOO_BUILD_NUMBER", "")
}

func TestBuildPipeline(t *testing.T) {
	clearCIEnv(t)
	cfg := newTestConfig(t)
	runner := pipeline.NewRunner(cfg, observability.NewNop())

	err := runner.Execute(context.Background(), "Build", pipeline.Params{
		BuildNumber: intPtr(42),
		Engine:      ciengine.Local,
		WorkDir:     t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Build pipeline failed: %v", err)
	}

	moduleFolder := filepath.Join(cfg.Module.OutputPath, "Sample", "1.3.42")

	// Combined module file: Classes, then Private, then Public, joined by
	// two blank lines.
	combined, err := os.ReadFile(filepath.Join(moduleFolder, "Sample.psm1"))
	if err != nil {
		t.Fatalf("Missing combined module file: %v", err)
	}
	want := classFragment + "\r\n\r\n\r\n" + privateFragment + "\r\n\r\n\r\n" + getFragment + "\r\n\r\n\r\n" + setFragment
	if string(combined) != want {
		t.Errorf("Unexpected combined module content:\n%q", string(combined))
	}

	// Manifest stamped and exports rewritten
	info, err := manifest.Parse(filepath.Join(moduleFolder, "Sample.psd1"))
	if err != nil {
		t.Fatalf("Failed to parse output manifest: %v", err)
	}
	if info.ModuleVersion.String() != "1.3.42" {
		t.Errorf("Expected version 1.3.42, got %s", info.ModuleVersion)
	}
	if len(info.FunctionsToExport) != 2 ||
		info.FunctionsToExport[0] != "Get-Thing" ||
		info.FunctionsToExport[1] != "Set-Thing" {
		t.Errorf("Unexpected export list: %v", info.FunctionsToExport)
	}

	// Descriptor stamped
	nuspec, err := os.ReadFile(filepath.Join(moduleFolder, "Sample.nuspec"))
	if err != nil {
		t.Fatalf("Missing output descriptor: %v", err)
	}
	if !strings.Contains(string(nuspec), "<version>1.3.42</version>") {
		t.Errorf("Descriptor not stamped:\n%s", nuspec)
	}
	if strings.Contains(string(nuspec), "__VERSION__") {
		t.Error("Descriptor placeholder still present")
	}

	// Verbatim copies: extras in, source groups and init script out
	if _, err := os.Stat(filepath.Join(moduleFolder, "LICENSE")); err != nil {
		t.Error("LICENSE should be copied verbatim")
	}
	if _, err := os.Stat(filepath.Join(moduleFolder, "en-US", "about_Sample.help.txt")); err != nil {
		t.Error("en-US folder should be copied verbatim")
	}
	if _, err := os.Stat(filepath.Join(moduleFolder, "InitializeModule.ps1")); !os.IsNotExist(err) {
		t.Error("init script must not be copied")
	}
	if _, err := os.Stat(filepath.Join(moduleFolder, "Public")); !os.IsNotExist(err) {
		t.Error("source groups must not be copied")
	}

	// Docs generated with the overview promoted to index
	for _, page := range []string{"Get-Thing.md", "Set-Thing.md", "index.md"} {
		if _, err := os.Stat(filepath.Join(cfg.Module.DocsPath, page)); err != nil {
			t.Errorf("Missing docs page %s: %v", page, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Module.DocsPath, "Sample.md")); !os.IsNotExist(err) {
		t.Error("overview page should have been renamed to index.md")
	}
}

func TestBuildPipelineDefaultPatch(t *testing.T) {
	clearCIEnv(t)
	cfg := newTestConfig(t)
	runner := pipeline.NewRunner(cfg, observability.NewNop())

	// No build number anywhere: patch defaults to 0.
	err := runner.Execute(context.Background(), "Build", pipeline.Params{
		Engine:  ciengine.Local,
		WorkDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Build pipeline failed: %v", err)
	}

	manifestPath := filepath.Join(cfg.Module.OutputPath, "Sample", "1.3.0", "Sample.psd1")
	info, err := manifest.Parse(manifestPath)
	if err != nil {
		t.Fatalf("Failed to parse output manifest: %v", err)
	}
	if info.ModuleVersion.String() != "1.3.0" {
		t.Errorf("Expected version 1.3.0, got %s", info.ModuleVersion)
	}
}

// Running Build twice exercises Clean against both a missing and an
// existing output folder.
func TestBuildPipelineRerun(t *testing.T) {
	clearCIEnv(t)
	cfg := newTestConfig(t)
	runner := pipeline.NewRunner(cfg, observability.NewNop())
	workDir := t.TempDir()

	params := pipeline.Params{BuildNumber: intPtr(1), Engine: ciengine.Local, WorkDir: workDir}
	if err := runner.Execute(context.Background(), "Build", params); err != nil {
		t.Fatalf("First build failed: %v", err)
	}
	if err := runner.Execute(context.Background(), "Build", params); err != nil {
		t.Fatalf("Second build failed: %v", err)
	}
}

func TestBuildAndTestPipeline(t *testing.T) {
	clearCIEnv(t)
	cfg := newTestConfig(t)
	runner := pipeline.NewRunner(cfg, observability.NewNop())
	workDir := t.TempDir()

	// The stub results include a skipped test; that must not fail the run.
	// Engine is Local, so no upload is attempted (APPVEYOR_JOB_ID is unset
	// and would make an upload fail loudly).
	err := runner.Execute(context.Background(), "BuildAndTest", pipeline.Params{
		BuildNumber: intPtr(7),
		Engine:      ciengine.Local,
		WorkDir:     workDir,
	})
	if err != nil {
		t.Fatalf("BuildAndTest pipeline failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(workDir, "TestResults.xml")); err != nil {
		t.Errorf("Results file not written: %v", err)
	}
}

func TestBuildAndTestAnalysisFailure(t *testing.T) {
	clearCIEnv(t)
	cfg := newTestConfig(t)
	cfg.Analyzer.Binary = writeStub(t, "stub-analyzer.sh",
		`[{"ruleName": "PSAvoidUsingWriteHost", "severity": "Warning", "scriptName": "Sample.psm1", "line": 3, "message": "Avoid Write-Host"}]`,
		"", "", 0)
	runner := pipeline.NewRunner(cfg, observability.NewNop())

	err := runner.Execute(context.Background(), "BuildAndTest", pipeline.Params{
		Engine:  ciengine.Local,
		WorkDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected pipeline failure for analyzer findings")
	}
	if !errors.IsType(err, errors.ErrAnalysis) {
		t.Errorf("expected analysis error, got %v", err)
	}
}

func TestBuildAndTestTestFailure(t *testing.T) {
	clearCIEnv(t)
	cfg := newTestConfig(t)
	cfg.Tests.Binary = writeStub(t, "stub-pester.sh", "", "TestResults.xml", failingResults(2), 1)
	runner := pipeline.NewRunner(cfg, observability.NewNop())

	err := runner.Execute(context.Background(), "BuildAndTest", pipeline.Params{
		Engine:  ciengine.Local,
		WorkDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected pipeline failure for failing tests")
	}
	if !errors.IsType(err, errors.ErrTest) {
		t.Errorf("expected test error, got %v", err)
	}
	if !strings.Contains(err.Error(), "2 tests failed") {
		t.Errorf("expected failed count in message, got %q", err.Error())
	}
}

func TestBuildAndTestAppVeyorUpload(t *testing.T) {
	clearCIEnv(t)

	var uploads int
	var uploadPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploads++
		uploadPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Setenv("APPVEYOR", "True")
	t.Setenv("APPVEYOR_URL", srv.URL)
	t.Setenv("APPVEYOR_JOB_ID", "job42")
	t.Setenv("APPVEYOR_BUILD_NUMBER", "42")

	cfg := newTestConfig(t)
	runner := pipeline.NewRunner(cfg, observability.NewNop())

	// No explicit build number: the AppVeyor counter supplies the patch.
	err := runner.Execute(context.Background(), "BuildAndTest", pipeline.Params{
		Engine:  ciengine.AppVeyor,
		WorkDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("BuildAndTest pipeline failed: %v", err)
	}

	if uploads != 1 {
		t.Errorf("Expected exactly one upload, got %d", uploads)
	}
	if uploadPath != "/api/testresults/nunit/job42" {
		t.Errorf("Unexpected upload path: %s", uploadPath)
	}

	if _, err := os.Stat(filepath.Join(cfg.Module.OutputPath, "Sample", "1.3.42")); err != nil {
		t.Errorf("Expected version 1.3.42 from the CI counter: %v", err)
	}
}

func TestBuildAndDeployPipeline(t *testing.T) {
	clearCIEnv(t)
	cfg := newTestConfig(t)
	runner := pipeline.NewRunner(cfg, observability.NewNop())

	err := runner.Execute(context.Background(), "BuildAndDeploy", pipeline.Params{
		BuildNumber: intPtr(3),
		Engine:      ciengine.Local,
		DeployURL:   "https://feed.example.com/nuget",
		APIKey:      "secret",
		WorkDir:     t.TempDir(),
	})
	if err != nil {
		t.Fatalf("BuildAndDeploy pipeline failed: %v", err)
	}

	// The trailing Clean removes the compiled output again.
	if _, err := os.Stat(filepath.Join(cfg.Module.OutputPath, "Sample", "1.3.3")); !os.IsNotExist(err) {
		t.Error("final Clean should remove the output module folder")
	}
}

func TestBuildAndDeployMissingAPIKey(t *testing.T) {
	clearCIEnv(t)
	cfg := newTestConfig(t)
	runner := pipeline.NewRunner(cfg, observability.NewNop())

	err := runner.Execute(context.Background(), "BuildAndDeploy", pipeline.Params{
		Engine:    ciengine.Local,
		DeployURL: "https://feed.example.com/nuget",
		WorkDir:   t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected failure without an API key")
	}
	if !errors.IsType(err, errors.ErrPackaging) {
		t.Errorf("expected packaging error, got %v", err)
	}
}

func TestInitDependencyFailure(t *testing.T) {
	clearCIEnv(t)
	cfg := newTestConfig(t)
	cfg.Tools = []config.ToolConfig{
		{Name: "definitely-not-a-real-tool-xyz", Install: []string{"false"}},
	}
	runner := pipeline.NewRunner(cfg, observability.NewNop())

	err := runner.Execute(context.Background(), "Build", pipeline.Params{
		Engine:  ciengine.Local,
		WorkDir: t.TempDir(),
	})
	if err == nil {
		t.Fatal("expected fatal dependency failure")
	}
	if !errors.IsFatalDependency(err) {
		t.Errorf("expected fatal dependency error, got %v", err)
	}
}

func TestExecuteUnknownPipeline(t *testing.T) {
	clearCIEnv(t)
	cfg := newTestConfig(t)
	runner := pipeline.NewRunner(cfg, observability.NewNop())

	err := runner.Execute(context.Background(), "Release", pipeline.Params{Engine: ciengine.Local})
	if err == nil {
		t.Error("expected error for unknown pipeline")
	}
}
