package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"librieval/internal/groundtruth"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = 0x42
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Utterance describes one audio file in a LibriSpeech-style test corpus.
type Utterance struct {
	ID        string
	Ext       string
	Reference string
	// NoReference leaves the utterance out of its sidecar.
	NoReference bool
	// Content overrides the audio bytes; the id is used when empty.
	Content string
}

// WriteCorpus lays out utterances under root as speaker/chapter/id.ext and
// appends a sidecar line for each one. It returns the audio paths in input order.
func WriteCorpus(t testing.TB, root string, utterances ...Utterance) []string {
	t.Helper()

	paths := make([]string, 0, len(utterances))
	for _, u := range utterances {
		id := groundtruth.ParseUtteranceID(u.ID)
		dir := filepath.Join(root, id.Speaker, id.Chapter)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
		ext := u.Ext
		if ext == "" {
			ext = ".flac"
		}
		audio := filepath.Join(dir, u.ID+ext)
		content := u.Content
		if content == "" {
			content = u.ID
		}
		if err := os.WriteFile(audio, []byte(content), 0o644); err != nil {
			t.Fatalf("write audio %s: %v", audio, err)
		}
		paths = append(paths, audio)

		sidecar := groundtruth.TranscriptPath(audio)
		if u.NoReference {
			continue
		}
		f, err := os.OpenFile(sidecar, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			t.Fatalf("open sidecar %s: %v", sidecar, err)
		}
		line := strings.TrimSpace(u.ID + " " + u.Reference)
		if _, err := f.WriteString(line + "\n"); err != nil {
			_ = f.Close()
			t.Fatalf("write sidecar %s: %v", sidecar, err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("close sidecar %s: %v", sidecar, err)
		}
	}
	return paths
}

// WriteHypothesis stores a static-backend hypothesis as <dir>/<id>.txt.
func WriteHypothesis(t testing.TB, dir, id, text string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, id+".txt"), []byte(text+"\n"), 0o644); err != nil {
		t.Fatalf("write hypothesis %s: %v", id, err)
	}
}
