// Copyright 2026 Modkit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package toolrunner

import "errors"

// Errors
var (
	ErrToolNotFound      = errors.New("tool binary not found in PATH")
	ErrProcessNotRunning = errors.New("process is not running")
	ErrProcessAlreadyRun = errors.New("process has already been started")
	ErrTimeout           = errors.New("execution timed out")
)
