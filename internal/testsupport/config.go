package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"librieval/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a normalized config rooted in a per-test temp directory.
// The static backend is selected so no external tool is needed.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "corpus")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.LedgerPath = ""
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ResultsDB = filepath.Join(base, "state", "results.db")
	cfgVal.Transcription.Backend = config.BackendStatic
	cfgVal.Transcription.StaticDir = filepath.Join(base, "hypotheses")
	cfgVal.Transcription.MaxRetries = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Normalize(); err != nil {
		t.Fatalf("normalize test config: %v", err)
	}
	for _, dir := range []string{builder.cfg.Paths.InputDir, builder.cfg.Transcription.StaticDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return builder.cfg
}

// WithWorkers sets the runner worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Runner.Workers = n
	}
}

// WithFormats sets the transcript output formats.
func WithFormats(formats ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.Formats = formats
	}
}

// WithRetries sets the transcription retry budget.
func WithRetries(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.MaxRetries = n
	}
}

// WithoutHistory disables the results store.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Runner.RecordHistory = false
		b.cfg.Runner.Resume = false
	}
}

// WithMutation applies an arbitrary change before normalization.
func WithMutation(fn func(*config.Config)) ConfigOption {
	return func(b *configBuilder) {
		fn(b.cfg)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.InputDir)
}
