// Package testrunner runs the external test framework and reports results.
package testrunner

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/modkit-ci/modkit/pkg/errors"
)

// Summary aggregates a test run.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// nunitResults maps the root element of an NUnit v2 results file.
type nunitResults struct {
	XMLName  xml.Name `xml:"test-results"`
	Total    int      `xml:"total,attr"`
	Errors   int      `xml:"errors,attr"`
	Failures int      `xml:"failures,attr"`
	NotRun   int      `xml:"not-run,attr"`
	Ignored  int      `xml:"ignored,attr"`
	Skipped  int      `xml:"skipped,attr"`
}

// ParseResults reads an NUnit-XML results file into a Summary.
// Errors and failures both count as failed; ignored, skipped and not-run
// tests never fail the run.
func ParseResults(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.TestError(fmt.Sprintf("failed to read results file: %s", path), err)
	}

	var res nunitResults
	if err := xml.Unmarshal(data, &res); err != nil {
		return nil, errors.TestError(fmt.Sprintf("failed to parse results file: %s", path), err)
	}

	skipped := res.NotRun + res.Ignored + res.Skipped
	failed := res.Failures + res.Errors
	return &Summary{
		Total:   res.Total,
		Passed:  res.Total - failed - skipped,
		Failed:  failed,
		Skipped: skipped,
	}, nil
}
