package config

import (
	"fmt"
	"os"
	"strings"
)

// Normalize expands paths, trims values, applies environment fallbacks, and
// fills defaults for zero values. Load calls it; callers that build a Config
// by hand (flag overrides, tests) call it again after mutating fields.
func (c *Config) Normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeScoring()
	c.normalizeRunner()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		c.Paths.InputDir = defaultInputDir
	}
	if c.Paths.InputDir, err = expandPath(strings.TrimSpace(c.Paths.InputDir)); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = DefaultLedgerPath(c.Paths.OutputDir)
	}
	if c.Paths.LedgerPath, err = expandPath(strings.TrimSpace(c.Paths.LedgerPath)); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ResultsDB) == "" {
		c.Paths.ResultsDB = defaultResultsDB
	}
	if c.Paths.ResultsDB, err = expandPath(strings.TrimSpace(c.Paths.ResultsDB)); err != nil {
		return fmt.Errorf("paths.results_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	t := &c.Transcription
	t.Backend = strings.ToLower(strings.TrimSpace(t.Backend))
	if t.Backend == "" {
		t.Backend = defaultBackend
	}
	t.Language = strings.ToLower(strings.TrimSpace(t.Language))
	if t.Language == "" {
		t.Language = defaultLanguage
	}
	t.Model = strings.TrimSpace(t.Model)
	if t.Model == "" {
		t.Model = defaultModel
	}
	t.VADMethod = strings.ToLower(strings.TrimSpace(t.VADMethod))
	if t.VADMethod == "" {
		t.VADMethod = defaultVADMethod
	}
	t.HFToken = strings.TrimSpace(t.HFToken)
	if t.HFToken == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			t.HFToken = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			t.HFToken = strings.TrimSpace(value)
		}
	}
	t.AssemblyAIAPIKey = strings.TrimSpace(t.AssemblyAIAPIKey)
	if t.AssemblyAIAPIKey == "" {
		if value, ok := os.LookupEnv("ASSEMBLYAI_API_KEY"); ok {
			t.AssemblyAIAPIKey = strings.TrimSpace(value)
		}
	}
	t.WhisperXBinary = strings.TrimSpace(t.WhisperXBinary)
	if dir := strings.TrimSpace(t.StaticDir); dir != "" {
		if expanded, err := expandPath(dir); err == nil {
			t.StaticDir = expanded
		}
	}

	formats := make([]string, 0, len(t.Formats)+1)
	seen := map[string]struct{}{}
	for _, format := range append([]string{defaultTranscriptFormat}, t.Formats...) {
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		formats = append(formats, normalized)
	}
	t.Formats = formats

	if t.MaxRetries < 0 {
		t.MaxRetries = 0
	}
	if t.TimeoutSeconds <= 0 {
		t.TimeoutSeconds = defaultTimeoutSeconds
	}
}

func (c *Config) normalizeScoring() {
	c.Scoring.EmptyReference = strings.ToLower(strings.TrimSpace(c.Scoring.EmptyReference))
	if c.Scoring.EmptyReference == "" {
		c.Scoring.EmptyReference = defaultEmptyReference
	}
}

func (c *Config) normalizeRunner() {
	if c.Runner.Workers <= 0 {
		c.Runner.Workers = defaultWorkers
	}
	if len(c.Runner.Extensions) == 0 {
		c.Runner.Extensions = DefaultExtensions()
		return
	}
	exts := make([]string, 0, len(c.Runner.Extensions))
	seen := make(map[string]struct{}, len(c.Runner.Extensions))
	for _, ext := range c.Runner.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}
	c.Runner.Extensions = exts
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
