package whisperx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"librieval/internal/services"
)

const samplePayload = `{
  "language": "en",
  "segments": [
    {"text": " MISTER QUILTER IS THE APOSTLE", "start": 0.031, "end": 2.5,
     "words": [{"word": "MISTER", "start": 0.031, "end": 0.4}, {"word": "QUILTER"}]},
    {"text": "OF THE MIDDLE CLASSES ", "start": 2.5, "end": 4.125, "words": []}
  ]
}`

func argValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func writeSource(t *testing.T) string {
	t.Helper()
	source := filepath.Join(t.TempDir(), "1272-128104-0000.flac")
	if err := os.WriteFile(source, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return source
}

func TestTranscribeFileParsesSegments(t *testing.T) {
	source := writeSource(t)
	workDir := t.TempDir()
	svc := NewService(Config{Model: "small", WorkDir: workDir})

	var gotName string
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		out := argValue(args, "--output_dir")
		return os.WriteFile(filepath.Join(out, "1272-128104-0000.json"), []byte(samplePayload), 0o644)
	})

	result, err := svc.TranscribeFile(context.Background(), source, "english")
	if err != nil {
		t.Fatalf("TranscribeFile: %v", err)
	}
	if result.Text != "MISTER QUILTER IS THE APOSTLE OF THE MIDDLE CLASSES" {
		t.Fatalf("unexpected text %q", result.Text)
	}
	if result.Language != "en" || len(result.Segments) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Segments[1].End.String() != "4.125" {
		t.Fatalf("unexpected end %s", result.Segments[1].End)
	}

	if gotName != UVXCommand {
		t.Fatalf("expected uvx launcher, got %q", gotName)
	}
	if !slices.Contains(gotArgs, "whisperx") || argValue(gotArgs, "--model") != "small" || argValue(gotArgs, "--language") != "en" {
		t.Fatalf("unexpected args %v", gotArgs)
	}
	if argValue(gotArgs, "--device") != CPUDevice || argValue(gotArgs, "--compute_type") != CPUComputeType {
		t.Fatalf("expected cpu device args, got %v", gotArgs)
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected scratch dir to be removed, found %d entries", len(entries))
	}
}

func TestCommandWithBinaryAndCUDA(t *testing.T) {
	svc := NewService(Config{Binary: "/opt/whisperx/bin/whisperx", CUDAEnabled: true, VADMethod: VADMethodPyannote, HFToken: "hf"})
	name, args := svc.command("a.wav", "/tmp/out", "")
	if name != "/opt/whisperx/bin/whisperx" {
		t.Fatalf("unexpected name %q", name)
	}
	if args[0] != "a.wav" {
		t.Fatalf("expected source first for local binary, got %v", args)
	}
	if slices.Contains(args, "--index-url") {
		t.Fatalf("did not expect uvx index args, got %v", args)
	}
	if argValue(args, "--device") != CUDADevice || argValue(args, "--hf_token") != "hf" {
		t.Fatalf("unexpected args %v", args)
	}
	if slices.Contains(args, "--language") {
		t.Fatalf("did not expect language flag, got %v", args)
	}
	if argValue(args, "--model") != DefaultModel {
		t.Fatalf("expected default model, got %v", args)
	}
}

func TestTranscribeFileCommandFailure(t *testing.T) {
	source := writeSource(t)
	svc := NewService(Config{WorkDir: t.TempDir()})
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 1")
	})
	_, err := svc.TranscribeFile(context.Background(), source, "en")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !services.Retryable(err) {
		t.Fatal("expected command failure to be retryable")
	}
}

func TestTranscribeFileMissingOutput(t *testing.T) {
	source := writeSource(t)
	svc := NewService(Config{WorkDir: t.TempDir()})
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return nil })
	_, err := svc.TranscribeFile(context.Background(), source, "en")
	if err == nil || !strings.Contains(err.Error(), "read output") {
		t.Fatalf("expected read output error, got %v", err)
	}
}

func TestTranscribeFileMissingSource(t *testing.T) {
	svc := NewService(Config{})
	_, err := svc.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "none.wav"), "en")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if services.Retryable(err) {
		t.Fatal("missing source must not be retried")
	}
}

func TestLoadSegmentsKeepsUntimedWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := os.WriteFile(path, []byte(samplePayload), 0o644); err != nil {
		t.Fatal(err)
	}
	segments, err := LoadSegments(path)
	if err != nil {
		t.Fatal(err)
	}
	words := segments[0].Words
	if len(words) != 2 || words[0].Start == nil || words[1].Start != nil {
		t.Fatalf("unexpected words %+v", words)
	}
}
