package config

import (
	"errors"
	"fmt"
	"strings"
)

var supportedFormats = map[string]struct{}{
	"txt":  {},
	"tsv":  {},
	"srt":  {},
	"vtt":  {},
	"json": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateScoring(); err != nil {
		return err
	}
	if err := c.validateRunner(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return errors.New("paths.input_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		return errors.New("paths.ledger_path must be set")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	switch t.Backend {
	case BackendWhisperX:
		if t.VADMethod != "silero" && t.VADMethod != "pyannote" {
			return fmt.Errorf("transcription.vad_method must be silero or pyannote, got %q", t.VADMethod)
		}
	case BackendAssemblyAI:
		if t.AssemblyAIAPIKey == "" {
			return errors.New("transcription.assemblyai_api_key must be set when transcription.backend is assemblyai (or set ASSEMBLYAI_API_KEY)")
		}
	case BackendStatic:
		if strings.TrimSpace(t.StaticDir) == "" {
			return errors.New("transcription.static_dir must be set when transcription.backend is static")
		}
	default:
		return fmt.Errorf("transcription.backend: unsupported value %q (supported: whisperx, assemblyai, static)", t.Backend)
	}
	for _, format := range t.Formats {
		if _, ok := supportedFormats[format]; !ok {
			return fmt.Errorf("transcription.formats: unsupported format %q (supported: txt, tsv, srt, vtt, json)", format)
		}
	}
	if t.MaxRetries > maxTranscriptionRetries {
		return fmt.Errorf("transcription.max_retries must be <= %d", maxTranscriptionRetries)
	}
	return nil
}

func (c *Config) validateScoring() error {
	switch c.Scoring.EmptyReference {
	case EmptyReferenceOne, EmptyReferenceZero, EmptyReferenceInsertions:
		return nil
	default:
		return fmt.Errorf("scoring.empty_reference must be one, zero, or insertions, got %q", c.Scoring.EmptyReference)
	}
}

func (c *Config) validateRunner() error {
	if c.Runner.Workers > maxWorkers {
		return fmt.Errorf("runner.workers must be <= %d", maxWorkers)
	}
	if c.Runner.Resume && !c.Runner.RecordHistory {
		return errors.New("runner.resume requires runner.record_history")
	}
	return nil
}
