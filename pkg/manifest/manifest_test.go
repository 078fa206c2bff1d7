package manifest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modkit-ci/modkit/pkg/manifest"
)

const sampleManifest = `@{
    RootModule = 'Sample.psm1'
    ModuleVersion = '1.3.0'
    GUID = 'c1f2937a-8cdb-4f57-b853-6f7e2d2f0a11'
    Author = 'Build Team'
    FunctionsToExport = @('Get-Sample', 'Set-Sample')
    CmdletsToExport = @()
}
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Sample.psd1")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test manifest: %v", err)
	}
	return path
}

func TestParseVersion(t *testing.T) {
	v, err := manifest.ParseVersion("1.3.0")
	if err != nil {
		t.Fatalf("ParseVersion failed: %v", err)
	}
	if v.Major != 1 || v.Minor != 3 || v.Patch != 0 {
		t.Errorf("Expected 1.3.0, got %s", v)
	}

	v, err = manifest.ParseVersion("2.7")
	if err != nil {
		t.Fatalf("ParseVersion failed for major.minor: %v", err)
	}
	if v.String() != "2.7.0" {
		t.Errorf("Expected 2.7.0, got %s", v)
	}

	if _, err := manifest.ParseVersion("banana"); err == nil {
		t.Error("expected error for invalid version")
	}
	if _, err := manifest.ParseVersion("1"); err == nil {
		t.Error("expected error for single-component version")
	}
}

func TestVersionWithPatch(t *testing.T) {
	v, _ := manifest.ParseVersion("1.3.0")
	if got := v.WithPatch(42).String(); got != "1.3.42" {
		t.Errorf("Expected 1.3.42, got %s", got)
	}
	// Original is unchanged
	if v.Patch != 0 {
		t.Errorf("WithPatch mutated the receiver: patch is %d", v.Patch)
	}
}

func TestParse(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	info, err := manifest.Parse(path)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if info.ModuleVersion.String() != "1.3.0" {
		t.Errorf("Expected version 1.3.0, got %s", info.ModuleVersion)
	}
	if len(info.FunctionsToExport) != 2 {
		t.Fatalf("Expected 2 exported functions, got %d", len(info.FunctionsToExport))
	}
	if info.FunctionsToExport[0] != "Get-Sample" || info.FunctionsToExport[1] != "Set-Sample" {
		t.Errorf("Unexpected export list: %v", info.FunctionsToExport)
	}
}

func TestParseMissingVersion(t *testing.T) {
	path := writeManifest(t, "@{\n    RootModule = 'Sample.psm1'\n}\n")

	if _, err := manifest.Parse(path); err == nil {
		t.Error("expected error for manifest without ModuleVersion")
	}
}

func TestPatchVersion(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	v, _ := manifest.ParseVersion("1.3.42")
	if err := manifest.PatchVersion(path, v); err != nil {
		t.Fatalf("PatchVersion failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read patched manifest: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "ModuleVersion = '1.3.42'") {
		t.Errorf("Patched manifest missing new version line:\n%s", content)
	}
	if strings.Contains(content, "1.3.0") {
		t.Errorf("Old version still present:\n%s", content)
	}
	// The rest of the manifest is untouched
	if !strings.Contains(content, "RootModule = 'Sample.psm1'") {
		t.Errorf("PatchVersion disturbed unrelated lines:\n%s", content)
	}
}

func TestSetExportedFunctions(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	funcs := []string{"New-Sample", "Remove-Sample", "New-Sample", "Get-Sample"}
	if err := manifest.SetExportedFunctions(path, funcs); err != nil {
		t.Fatalf("SetExportedFunctions failed: %v", err)
	}

	info, err := manifest.Parse(path)
	if err != nil {
		t.Fatalf("Parse after rewrite failed: %v", err)
	}

	want := []string{"New-Sample", "Remove-Sample", "Get-Sample"}
	if len(info.FunctionsToExport) != len(want) {
		t.Fatalf("Expected %d exports, got %v", len(want), info.FunctionsToExport)
	}
	for i, fn := range want {
		if info.FunctionsToExport[i] != fn {
			t.Errorf("Export %d: expected %s, got %s", i, fn, info.FunctionsToExport[i])
		}
	}
}
