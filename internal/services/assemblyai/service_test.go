package assemblyai

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"librieval/internal/services"
)

func ptr[T any](v T) *T { return &v }

type fakeAPI struct {
	body     string
	params   *aai.TranscriptOptionalParams
	response aai.Transcript
	err      error
}

func (f *fakeAPI) TranscribeFromReader(_ context.Context, reader io.Reader, params *aai.TranscriptOptionalParams) (aai.Transcript, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return aai.Transcript{}, err
	}
	f.body = string(data)
	f.params = params
	return f.response, f.err
}

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "1272-128104-0000.flac")
	if err := os.WriteFile(path, []byte("audio-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewServiceRequiresKey(t *testing.T) {
	if _, err := NewService("  "); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	svc, err := NewService("key")
	if err != nil || svc.Name() != "assemblyai" {
		t.Fatalf("unexpected service %v %v", svc, err)
	}
}

func TestTranscribeFileMapsWords(t *testing.T) {
	api := &fakeAPI{response: aai.Transcript{
		Status:       aai.TranscriptStatusCompleted,
		Text:         ptr("Mister Quilter is the apostle."),
		LanguageCode: aai.TranscriptLanguageCode("en"),
		Words: []aai.TranscriptWord{
			{Text: ptr("Mister"), Start: ptr(int64(120)), End: ptr(int64(400))},
			{Text: ptr("Quilter"), Start: ptr(int64(400)), End: ptr(int64(900))},
			{Text: ptr("apostle."), Start: ptr(int64(1500)), End: ptr(int64(2250))},
		},
	}}
	svc := &Service{api: api}

	result, err := svc.TranscribeFile(context.Background(), writeSource(t), "english")
	if err != nil {
		t.Fatalf("TranscribeFile: %v", err)
	}
	if api.body != "audio-bytes" {
		t.Fatalf("expected file contents to be uploaded, got %q", api.body)
	}
	if api.params == nil || api.params.LanguageCode != aai.TranscriptLanguageCode("en") {
		t.Fatalf("expected language code en, got %+v", api.params)
	}
	if result.Text != "Mister Quilter is the apostle." || result.Language != "en" {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("expected one segment, got %d", len(result.Segments))
	}
	seg := result.Segments[0]
	if seg.Start.String() != "0.12" || seg.End.String() != "2.25" {
		t.Fatalf("unexpected timings %s-%s", seg.Start, seg.End)
	}
}

func TestTranscribeFileUsesUtterances(t *testing.T) {
	api := &fakeAPI{response: aai.Transcript{
		Status: aai.TranscriptStatusCompleted,
		Utterances: []aai.TranscriptUtterance{
			{Text: ptr("first part"), Start: ptr(int64(0)), End: ptr(int64(1000))},
			{Text: ptr("second part"), Start: ptr(int64(1000)), End: ptr(int64(2000))},
		},
	}}
	svc := &Service{api: api}
	result, err := svc.TranscribeFile(context.Background(), writeSource(t), "en")
	if err != nil {
		t.Fatal(err)
	}
	if result.Text != "first part second part" || len(result.Segments) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.Language != "en" {
		t.Fatalf("expected fallback language, got %q", result.Language)
	}
}

func TestTranscribeFileErrors(t *testing.T) {
	source := writeSource(t)

	failed := &Service{api: &fakeAPI{response: aai.Transcript{Status: aai.TranscriptStatusError, Error: ptr("audio too short")}}}
	_, err := failed.TranscribeFile(context.Background(), source, "en")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}

	broken := &Service{api: &fakeAPI{err: errors.New("connection reset")}}
	_, err = broken.TranscribeFile(context.Background(), source, "en")
	if !errors.Is(err, services.ErrExternalTool) || !services.Retryable(err) {
		t.Fatalf("expected retryable external error, got %v", err)
	}

	_, err = broken.TranscribeFile(context.Background(), filepath.Join(t.TempDir(), "missing.flac"), "en")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
