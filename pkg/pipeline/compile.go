// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/modkit-ci/modkit/pkg/errors"
	"github.com/modkit-ci/modkit/pkg/manifest"
	"github.com/modkit-ci/modkit/pkg/observability"
	"github.com/modkit-ci/modkit/pkg/packaging"
)

// sourceGroups are the fragment folders in concatenation order. Class
// definitions must precede private helpers, which must precede public
// entry points, since later fragments reference earlier ones.
var sourceGroups = [3]string{"Classes", "Private", "Public"}

// fragmentDelimiter separates concatenated fragments: two blank lines.
const fragmentDelimiter = "\r\n\r\n\r\n"

// taskCompile assembles the output module folder: concatenated root module
// file, verbatim copies of the remaining source tree, patched manifest and
// stamped packaging descriptor.
func (r *Runner) taskCompile(ctx context.Context, bc *BuildContext) error {
	moduleFolder := bc.ModulePath()
	if err := os.MkdirAll(moduleFolder, 0755); err != nil {
		return errors.TaskError("failed to create output module folder", err)
	}
	bc.ModuleFolder = moduleFolder

	var fragments []string
	var publicFunctions []string
	for _, group := range sourceGroups {
		files, err := collectSourceFiles(filepath.Join(bc.SourcePath, group), r.cfg.Module.SourceExtensions)
		if err != nil {
			return err
		}
		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				return errors.TaskError(fmt.Sprintf("failed to read source fragment %s", file), err)
			}
			fragments = append(fragments, string(data))

			if group == "Public" {
				base := filepath.Base(file)
				publicFunctions = append(publicFunctions, strings.TrimSuffix(base, filepath.Ext(base)))
			}
		}
	}
	bc.ExportedFunctions = dedupe(publicFunctions)

	rootModule := filepath.Join(moduleFolder, bc.ModuleName+".psm1")
	combined := strings.Join(fragments, fragmentDelimiter)
	if err := os.WriteFile(rootModule, []byte(combined), 0644); err != nil {
		return errors.TaskError("failed to write combined module file", err)
	}
	bc.Logger.Info("module compiled",
		observability.Int("fragments", len(fragments)),
		observability.Int("exported", len(bc.ExportedFunctions)),
	)

	if err := copyRemaining(bc.SourcePath, moduleFolder, r.cfg.Module.InitScript); err != nil {
		return err
	}

	manifestPath := filepath.Join(moduleFolder, r.cfg.Module.Manifest)
	if err := manifest.PatchVersion(manifestPath, bc.Version); err != nil {
		return err
	}
	if err := manifest.SetExportedFunctions(manifestPath, bc.ExportedFunctions); err != nil {
		return err
	}

	descriptor := filepath.Join(moduleFolder, r.cfg.Packaging.Descriptor)
	if _, err := os.Stat(descriptor); err == nil {
		if err := packaging.StampDescriptor(descriptor, bc.Version.String()); err != nil {
			return err
		}
	}

	return nil
}

// collectSourceFiles enumerates a source group in sorted directory order,
// recursing one level deep, keeping only the configured extensions.
// A missing group folder is simply empty.
func collectSourceFiles(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.TaskError(fmt.Sprintf("failed to read source group %s", dir), err)
	}

	var files []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subEntries, err := os.ReadDir(path)
			if err != nil {
				return nil, errors.TaskError(fmt.Sprintf("failed to read source group %s", path), err)
			}
			for _, sub := range subEntries {
				if !sub.IsDir() && hasExtension(sub.Name(), extensions) {
					files = append(files, filepath.Join(path, sub.Name()))
				}
			}
			continue
		}
		if hasExtension(entry.Name(), extensions) {
			files = append(files, path)
		}
	}
	return files, nil
}

func hasExtension(name string, extensions []string) bool {
	ext := filepath.Ext(name)
	for _, e := range extensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// copyRemaining copies every top-level source entry into the output folder
// verbatim, excluding the three fragment groups and the init script.
func copyRemaining(src, dst, initScript string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.TaskError(fmt.Sprintf("failed to read source tree %s", src), err)
	}

	for _, entry := range entries {
		if entry.IsDir() && isSourceGroup(entry.Name()) {
			continue
		}
		if !entry.IsDir() && entry.Name() == initScript {
			continue
		}

		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDir(from, to); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(from, to); err != nil {
			return err
		}
	}
	return nil
}

func isSourceGroup(name string) bool {
	for _, g := range sourceGroups {
		if name == g {
			return true
		}
	}
	return false
}

func copyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return errors.TaskError(fmt.Sprintf("failed to create folder %s", dst), err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.TaskError(fmt.Sprintf("failed to read folder %s", src), err)
	}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := copyDir(from, to); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(from, to); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.TaskError(fmt.Sprintf("failed to open %s", src), err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.TaskError(fmt.Sprintf("failed to create %s", dst), err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.TaskError(fmt.Sprintf("failed to copy %s", src), err)
	}
	return nil
}

// dedupe removes duplicates while preserving first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
