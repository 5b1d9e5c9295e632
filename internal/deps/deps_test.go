package deps

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"librieval/internal/config"
	"librieval/internal/services"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestRequirementsByBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		binary  string
		want    []string
	}{
		{name: "whisperx via uvx", backend: config.BackendWhisperX, want: []string{"uvx", "ffmpeg"}},
		{name: "whisperx local binary", backend: config.BackendWhisperX, binary: "/opt/whisperx/bin/whisperx", want: []string{"/opt/whisperx/bin/whisperx", "ffmpeg"}},
		{name: "assemblyai", backend: config.BackendAssemblyAI},
		{name: "static", backend: config.BackendStatic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Transcription.Backend = tt.backend
			cfg.Transcription.WhisperXBinary = tt.binary
			reqs := Requirements(&cfg)
			if len(reqs) != len(tt.want) {
				t.Fatalf("expected %d requirements, got %+v", len(tt.want), reqs)
			}
			for i, req := range reqs {
				if req.Command != tt.want[i] {
					t.Fatalf("requirement %d: got %q want %q", i, req.Command, tt.want[i])
				}
			}
		})
	}
}

func TestVerifyReportsMissingBinaries(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	cfg := config.Default()
	cfg.Transcription.Backend = config.BackendWhisperX

	err := Verify(&cfg)
	if err == nil {
		t.Fatal("expected missing dependency error")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}

	cfg.Transcription.Backend = config.BackendStatic
	if err := Verify(&cfg); err != nil {
		t.Fatalf("static backend should need nothing: %v", err)
	}
}
