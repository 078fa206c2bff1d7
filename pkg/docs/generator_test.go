package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modkit-ci/modkit/pkg/docs"
)

func TestGenerate(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "docs")
	g := docs.NewGenerator(&docs.Config{OutputDir: outDir})

	functions := []string{"Get-Sample", "Set-Sample"}
	if err := g.Generate("Sample", "1.3.42", functions); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// One page per exported function
	for _, fn := range functions {
		path := filepath.Join(outDir, fn+".md")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Missing function page %s: %v", path, err)
		}
		if !strings.Contains(string(data), "# "+fn) {
			t.Errorf("Function page %s missing heading", fn)
		}
		if !strings.Contains(string(data), "version: 1.3.42") {
			t.Errorf("Function page %s missing version front matter", fn)
		}
	}

	// The overview page was promoted to index.md
	index, err := os.ReadFile(filepath.Join(outDir, "index.md"))
	if err != nil {
		t.Fatalf("Missing index.md: %v", err)
	}
	if !strings.Contains(string(index), "# Sample") {
		t.Error("index.md is not the module overview")
	}
	if !strings.Contains(string(index), "[Get-Sample](Get-Sample.md)") {
		t.Error("index.md missing function links")
	}

	// The raw overview page is gone after the rename
	if _, err := os.Stat(filepath.Join(outDir, "Sample.md")); !os.IsNotExist(err) {
		t.Error("overview page should have been renamed away")
	}
}

func TestGenerateNoFunctions(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "docs")
	g := docs.NewGenerator(&docs.Config{OutputDir: outDir})

	if err := g.Generate("Sample", "1.0.0", nil); err != nil {
		t.Fatalf("Generate with no functions failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "index.md")); err != nil {
		t.Errorf("index.md should exist even with no functions: %v", err)
	}
}

func TestGeneratorDefaults(t *testing.T) {
	if docs.NewGenerator(nil) == nil {
		t.Fatal("NewGenerator(nil) returned nil")
	}
}
