package static

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"librieval/internal/services"
)

func TestTranscribeFileReadsHypothesis(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "1272-128104-0000.txt"), []byte("the quick\n brown fox\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	svc, err := NewService(dir)
	if err != nil {
		t.Fatal(err)
	}
	result, err := svc.TranscribeFile(context.Background(), "/corpus/1272/128104/1272-128104-0000.flac", "en")
	if err != nil {
		t.Fatal(err)
	}
	if result.Text != "the quick brown fox" || result.Language != "en" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestTranscribeFileMissingHypothesis(t *testing.T) {
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.TranscribeFile(context.Background(), "x.wav", "en")
	if !errors.Is(err, services.ErrNotFound) || services.Retryable(err) {
		t.Fatalf("expected non-retryable not found, got %v", err)
	}
}

func TestNewServiceRejectsMissingDir(t *testing.T) {
	if _, err := NewService(filepath.Join(t.TempDir(), "nope")); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTranscribeFileHonoursCancellation(t *testing.T) {
	svc, err := NewService(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.TranscribeFile(ctx, "x.wav", "en"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
