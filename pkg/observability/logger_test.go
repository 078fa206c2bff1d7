package observability_test

import (
	"testing"

	"github.com/modkit-ci/modkit/pkg/observability"
)

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		for _, format := range []string{"console", "json"} {
			log := observability.NewLogger(level, format)
			if log == nil {
				t.Fatalf("NewLogger(%s, %s) returned nil", level, format)
			}
			// Must not panic
			log.Debug("debug message", observability.String("k", "v"))
			log.Info("info message", observability.Int("n", 1))
		}
	}
}

func TestWith(t *testing.T) {
	log := observability.NewNop().With(observability.String("module", "Sample"))
	if log == nil {
		t.Fatal("With returned nil")
	}
	log.Info("message")
}
