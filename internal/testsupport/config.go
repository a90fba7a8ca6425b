package testsupport

import (
	"path/filepath"
	"testing"

	"subsnap/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.QueueDBPath = filepath.Join(base, "queue.db")
	cfg.Batch.Workers = 1

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithOutputFormat overrides the output format on the test config.
func WithOutputFormat(format string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Extraction.OutputFormat = format
	}
}

// WithSimilarityThreshold overrides the consolidation threshold.
func WithSimilarityThreshold(threshold int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Extraction.SimilarityThreshold = threshold
	}
}
