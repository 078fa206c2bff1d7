// Package ciengine provides CI engine identification for modkit.
package ciengine

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Engine identifies the continuous-integration system driving the pipeline.
type Engine int

const (
	// Local means no CI engine was detected; uploads are skipped.
	Local Engine = iota
	// Bamboo is Atlassian Bamboo.
	Bamboo
	// AppVeyor is AppVeyor CI; test results are uploaded to its job endpoint.
	AppVeyor
)

// String returns the canonical lowercase engine name.
func (e Engine) String() string {
	switch e {
	case Bamboo:
		return "bamboo"
	case AppVeyor:
		return "appveyor"
	default:
		return "local"
	}
}

// Parse converts an engine name into an Engine. Matching is
// case-insensitive. An empty name auto-detects from the environment.
func Parse(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Detect(), nil
	case "local":
		return Local, nil
	case "bamboo":
		return Bamboo, nil
	case "appveyor":
		return AppVeyor, nil
	default:
		return Local, fmt.Errorf("unknown ci engine: %q (expected local, bamboo or appveyor)", name)
	}
}

// Detect auto-detects the current CI engine from environment variables.
func Detect() Engine {
	// AppVeyor sets APPVEYOR=True on every build worker.
	if strings.EqualFold(os.Getenv("APPVEYOR"), "true") {
		return AppVeyor
	}

	// Bamboo exposes its build counter to scripts.
	if os.Getenv("bamboo_buildNumber") != "" || os.Getenv("BAMBOO_BUILD_NUMBER") != "" {
		return Bamboo
	}

	return Local
}

// IsRunningInCI returns true if running under any known CI engine.
func IsRunningInCI() bool {
	return Detect() != Local
}

// BuildNumberFromEnv returns the engine-provided build counter, if any.
// Local runs have no counter.
func BuildNumberFromEnv(e Engine) (int, bool) {
	var raw string
	switch e {
	case AppVeyor:
		raw = os.Getenv("APPVEYOR_BUILD_NUMBER")
	case Bamboo:
		raw = os.Getenv("bamboo_buildNumber")
		if raw == "" {
			raw = os.Getenv("BAMBOO_BUILD_NUMBER")
		}
	default:
		return 0, false
	}
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SupportedEngines returns the list of engine names accepted by Parse.
func SupportedEngines() []string {
	return []string{"local", "bamboo", "appveyor"}
}
