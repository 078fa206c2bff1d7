// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package packaging produces and publishes module archives.
package packaging

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modkit-ci/modkit/pkg/errors"
	"github.com/modkit-ci/modkit/pkg/toolrunner"
)

// VersionPlaceholder is the literal token in the packaging descriptor
// that gets replaced with the computed version.
const VersionPlaceholder = "__VERSION__"

// Packager shells out to the packaging tool for pack and push.
type Packager struct {
	Tool string // packaging binary, e.g. nuget
}

// New creates a packager for the given tool binary.
func New(tool string) *Packager {
	return &Packager{Tool: tool}
}

// StampDescriptor replaces every VersionPlaceholder occurrence in the
// descriptor file with the version string.
func StampDescriptor(path, version string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.PackagingError(fmt.Sprintf("failed to read descriptor: %s", path), err)
	}

	stamped := bytes.ReplaceAll(data, []byte(VersionPlaceholder), []byte(version))
	if err := os.WriteFile(path, stamped, 0644); err != nil {
		return errors.PackagingError(fmt.Sprintf("failed to write descriptor: %s", path), err)
	}
	return nil
}

// Pack builds an archive from the descriptor into workDir and returns the
// archive path.
func (p *Packager) Pack(ctx context.Context, descriptor, name, version, workDir string) (string, error) {
	_, err := toolrunner.Run(ctx, workDir, p.Tool, "pack", descriptor, "-OutputDirectory", workDir)
	if err != nil {
		return "", errors.PackagingError("pack failed", err)
	}
	return filepath.Join(workDir, fmt.Sprintf("%s.%s.nupkg", name, version)), nil
}

// Push publishes the archive to the feed URL using the API key.
func (p *Packager) Push(ctx context.Context, archive, feedURL, apiKey string) error {
	if feedURL == "" {
		return errors.PackagingError("deploy url is required", nil)
	}
	if apiKey == "" {
		return errors.PackagingError("api key is required", nil)
	}
	_, err := toolrunner.Run(ctx, "", p.Tool, "push", archive, "-Source", feedURL, "-ApiKey", apiKey)
	if err != nil {
		return errors.PackagingError("push failed", err)
	}
	return nil
}
