package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"librieval/internal/transcript"
)

// FakeTranscriber returns canned hypotheses keyed by audio base name.
type FakeTranscriber struct {
	mu sync.Mutex
	// Texts maps utterance id to hypothesis text.
	Texts map[string]string
	// Errors maps utterance id to a queue of errors returned before success.
	Errors map[string][]error
	calls  map[string]int
}

// NewFakeTranscriber builds a FakeTranscriber from id/text pairs.
func NewFakeTranscriber(texts map[string]string) *FakeTranscriber {
	return &FakeTranscriber{
		Texts:  texts,
		Errors: make(map[string][]error),
		calls:  make(map[string]int),
	}
}

// FailWith queues errs for id; each call consumes one.
func (f *FakeTranscriber) FailWith(id string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[id] = append(f.Errors[id], errs...)
}

// TranscribeFile implements the runner's transcriber contract.
func (f *FakeTranscriber) TranscribeFile(ctx context.Context, audioPath, language string) (transcript.Result, error) {
	if err := ctx.Err(); err != nil {
		return transcript.Result{}, err
	}
	base := filepath.Base(audioPath)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[id]++
	if queued := f.Errors[id]; len(queued) > 0 {
		f.Errors[id] = queued[1:]
		return transcript.Result{}, queued[0]
	}
	text, ok := f.Texts[id]
	if !ok {
		return transcript.Result{}, fmt.Errorf("fake transcriber: no hypothesis for %s", id)
	}
	return transcript.Result{Text: text, Language: language}, nil
}

// Calls returns how many times id was transcribed.
func (f *FakeTranscriber) Calls(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}
