package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input, output, and state locations.
type Paths struct {
	InputDir   string `toml:"input_dir"`
	OutputDir  string `toml:"output_dir"`
	LedgerPath string `toml:"ledger_path"`
	LogDir     string `toml:"log_dir"`
	ResultsDB  string `toml:"results_db"`
}

// Transcription contains settings for the speech-to-text backend.
type Transcription struct {
	// Backend selects the transcription service ("whisperx", "assemblyai", "static").
	Backend  string `toml:"backend"`
	Language string `toml:"language"`
	// Model is the WhisperX model name (e.g., "base", "large-v3").
	Model       string `toml:"model"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
	VADMethod   string `toml:"vad_method"`
	HFToken     string `toml:"hf_token"`
	// WhisperXBinary overrides the launcher; empty runs WhisperX through uvx.
	WhisperXBinary   string `toml:"whisperx_binary"`
	AssemblyAIAPIKey string `toml:"assemblyai_api_key"`
	// StaticDir holds precomputed <utterance>.txt hypotheses for the static backend.
	StaticDir      string   `toml:"static_dir"`
	Formats        []string `toml:"formats"`
	MaxRetries     int      `toml:"max_retries"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Scoring contains settings for WER/PER computation.
type Scoring struct {
	// Normalize enables case folding and punctuation stripping before scoring.
	Normalize bool `toml:"normalize"`
	// EmptyReference is the WER policy for an empty reference with a non-empty
	// hypothesis: "one", "zero", or "insertions".
	EmptyReference string `toml:"empty_reference"`
}

// Runner contains batch runner behaviour.
type Runner struct {
	Workers              int      `toml:"workers"`
	Extensions           []string `toml:"extensions"`
	Resume               bool     `toml:"resume"`
	FailFast             bool     `toml:"fail_fast"`
	SkipMissingReference bool     `toml:"skip_missing_reference"`
	RecordHistory        bool     `toml:"record_history"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for librieval.
//
// Configuration sections by subsystem:
//   - Paths: corpus root, transcript output, ledger, logs, results database
//   - Transcription: backend selection and model settings
//   - Scoring: normalization and empty-reference policy
//   - Runner: workers, extensions, resume and failure handling
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Transcription Transcription `toml:"transcription"`
	Scoring       Scoring       `toml:"scoring"`
	Runner        Runner        `toml:"runner"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("librieval.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// DefaultLedgerPath returns the ledger location used when paths.ledger_path is
// unset.
func DefaultLedgerPath(outputDir string) string {
	return filepath.Join(outputDir, defaultLedgerName)
}

// EnsureDirectories creates the output and log directories. The ledger and
// results database parents are created as well since both are opened lazily.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OutputDir, c.Paths.LogDir, filepath.Dir(c.Paths.LedgerPath)}
	if c.Runner.RecordHistory && c.Paths.ResultsDB != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.ResultsDB))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SupportsExtension reports whether the runner should process files with ext.
func (c *Config) SupportsExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, candidate := range c.Runner.Extensions {
		if candidate == ext {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
