package main

import (
	"fmt"
	"path/filepath"

	"librieval/internal/batch"
	"librieval/internal/config"
	"librieval/internal/services/assemblyai"
	"librieval/internal/services/static"
	"librieval/internal/services/whisperx"
)

// newTranscriber builds the backend selected by transcription.backend.
func newTranscriber(cfg *config.Config) (batch.Transcriber, error) {
	t := cfg.Transcription
	switch t.Backend {
	case config.BackendWhisperX:
		return whisperx.NewService(whisperx.Config{
			Model:       t.Model,
			CUDAEnabled: t.CUDAEnabled,
			VADMethod:   t.VADMethod,
			HFToken:     t.HFToken,
			Binary:      t.WhisperXBinary,
			WorkDir:     filepath.Join(cfg.Paths.OutputDir, ".whisperx"),
		}), nil
	case config.BackendAssemblyAI:
		svc, err := assemblyai.NewService(t.AssemblyAIAPIKey)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case config.BackendStatic:
		svc, err := static.NewService(t.StaticDir)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unsupported backend %q", t.Backend)
	}
}
