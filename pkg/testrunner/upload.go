// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package testrunner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modkit-ci/modkit/pkg/errors"
)

const defaultAppVeyorURL = "https://ci.appveyor.com"

// Uploader publishes test results files to the AppVeyor job endpoint.
type Uploader struct {
	BaseURL string
	Client  *http.Client
}

// NewUploader creates an uploader against the AppVeyor API. The base URL
// can be overridden through APPVEYOR_URL for on-premise servers.
func NewUploader() *Uploader {
	base := os.Getenv("APPVEYOR_URL")
	if base == "" {
		base = defaultAppVeyorURL
	}
	return &Uploader{
		BaseURL: base,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Upload posts the NUnit results file to the current AppVeyor job. The job
// id comes from the APPVEYOR_JOB_ID environment variable set by the worker.
func (u *Uploader) Upload(ctx context.Context, resultsPath string) error {
	jobID := os.Getenv("APPVEYOR_JOB_ID")
	if jobID == "" {
		return errors.TestError("APPVEYOR_JOB_ID is not set", nil)
	}

	f, err := os.Open(resultsPath)
	if err != nil {
		return errors.TestError(fmt.Sprintf("failed to open results file: %s", resultsPath), err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(resultsPath))
	if err != nil {
		return errors.TestError("failed to build upload request", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return errors.TestError("failed to read results file", err)
	}
	if err := writer.Close(); err != nil {
		return errors.TestError("failed to build upload request", err)
	}

	url := fmt.Sprintf("%s/api/testresults/nunit/%s", strings.TrimRight(u.BaseURL, "/"), jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return errors.TestError("failed to build upload request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.Client.Do(req)
	if err != nil {
		return errors.TestError("results upload failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.TestError(fmt.Sprintf("results upload rejected (%d): %s", resp.StatusCode, string(msg)), nil)
	}

	return nil
}
