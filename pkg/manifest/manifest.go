// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package manifest

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/modkit-ci/modkit/pkg/errors"
)

// Info is the metadata read from a module manifest.
type Info struct {
	Path              string
	ModuleVersion     Version
	FunctionsToExport []string
}

var (
	versionLine = regexp.MustCompile(`(?m)^(\s*)ModuleVersion\s*=\s*['"]?([0-9.]+)['"]?\s*$`)
	exportsLine = regexp.MustCompile(`(?m)^(\s*)FunctionsToExport\s*=\s*.*$`)
	quotedItem  = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)
)

// Parse reads a manifest file and extracts the module version and the
// exported function list. Only the fields the pipeline mutates are parsed;
// everything else is opaque text.
func Parse(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ManifestError(fmt.Sprintf("failed to read manifest: %s", path), err)
	}

	m := versionLine.FindSubmatch(data)
	if m == nil {
		return nil, errors.ManifestError(fmt.Sprintf("no ModuleVersion entry in %s", path), nil)
	}
	version, err := ParseVersion(string(m[2]))
	if err != nil {
		return nil, errors.ManifestError(fmt.Sprintf("bad ModuleVersion in %s", path), err)
	}

	info := &Info{
		Path:          path,
		ModuleVersion: version,
	}

	if e := exportsLine.Find(data); e != nil {
		for _, item := range quotedItem.FindAllStringSubmatch(string(e), -1) {
			name := item[1]
			if name == "" {
				name = item[2]
			}
			if name != "" {
				info.FunctionsToExport = append(info.FunctionsToExport, name)
			}
		}
	}

	return info, nil
}

// PatchVersion replaces the manifest's ModuleVersion line wholesale with the
// given version. The structured manifest updater mangles the field when the
// declared version does not match the folder name, so the line is rewritten
// textually instead.
func PatchVersion(path string, version Version) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.ManifestError(fmt.Sprintf("failed to read manifest: %s", path), err)
	}

	if !versionLine.Match(data) {
		return errors.ManifestError(fmt.Sprintf("no ModuleVersion entry in %s", path), nil)
	}

	patched := versionLine.ReplaceAll(data, []byte(fmt.Sprintf("${1}ModuleVersion = '%s'", version)))
	if err := os.WriteFile(path, patched, 0644); err != nil {
		return errors.ManifestError(fmt.Sprintf("failed to write manifest: %s", path), err)
	}
	return nil
}

// SetExportedFunctions replaces the manifest's FunctionsToExport line
// wholesale with the given function names, preserving order and dropping
// duplicates.
func SetExportedFunctions(path string, functions []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.ManifestError(fmt.Sprintf("failed to read manifest: %s", path), err)
	}

	if !exportsLine.Match(data) {
		return errors.ManifestError(fmt.Sprintf("no FunctionsToExport entry in %s", path), nil)
	}

	seen := make(map[string]bool, len(functions))
	quoted := make([]string, 0, len(functions))
	for _, fn := range functions {
		if fn == "" || seen[fn] {
			continue
		}
		seen[fn] = true
		quoted = append(quoted, "'"+fn+"'")
	}

	line := fmt.Sprintf("${1}FunctionsToExport = @(%s)", strings.Join(quoted, ", "))
	patched := exportsLine.ReplaceAll(data, []byte(line))
	if err := os.WriteFile(path, patched, 0644); err != nil {
		return errors.ManifestError(fmt.Sprintf("failed to write manifest: %s", path), err)
	}
	return nil
}
