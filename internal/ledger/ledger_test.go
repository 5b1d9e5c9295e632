package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestAppendWritesHeaderOnceAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "metric.csv")
	ctx := context.Background()

	if err := New(path).Append(ctx, Record{AudioFilename: "a.flac", WER: 0.5, PER: 0.25}); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := New(path).Append(ctx, Record{AudioFilename: "b.flac", WER: 1.0 / 3.0, PER: 0}); err != nil {
		t.Fatalf("second append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "audio_filename,wer,per\na.flac,0.5,0.25\nb.flac,0.3333333333333333,0\n"
	if string(data) != want {
		t.Fatalf("unexpected ledger:\n%q\nwant\n%q", data, want)
	}
}

func TestAppendWritesHeaderIntoEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metric.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := New(path).Append(context.Background(), Record{AudioFilename: "x.wav", WER: 1, PER: 1}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "audio_filename,wer,per\n") {
		t.Fatalf("expected header, got %q", data)
	}
}

func TestAppendPreservesCallOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metric.csv")
	l := New(path)
	const n = 25
	for i := 0; i < n; i++ {
		if err := l.Append(context.Background(), Record{AudioFilename: fmt.Sprintf("%02d.flac", i), WER: float64(i), PER: 0}); err != nil {
			t.Fatal(err)
		}
	}
	records, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != n {
		t.Fatalf("expected %d records, got %d", n, len(records))
	}
	for i, rec := range records {
		if rec.AudioFilename != fmt.Sprintf("%02d.flac", i) || rec.WER != float64(i) {
			t.Fatalf("record %d out of order: %+v", i, rec)
		}
	}
}

func TestConcurrentAppendsKeepHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metric.csv")
	l := New(path)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := l.Append(context.Background(), Record{AudioFilename: fmt.Sprintf("f%d.wav", i)}); err != nil {
				t.Errorf("append %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "audio_filename,wer,per"); got != 1 {
		t.Fatalf("expected one header, got %d", got)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 21 {
		t.Fatalf("expected 21 lines, got %d", len(lines))
	}
}

func TestAppendQuotesFilenames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metric.csv")
	if err := New(path).Append(context.Background(), Record{AudioFilename: "odd, name.wav", WER: 0.1, PER: 0.2}); err != nil {
		t.Fatal(err)
	}
	records, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].AudioFilename != "odd, name.wav" {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestAppendHonoursCancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metric.csv")
	holder := New(path)
	locked, err := holder.lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-lock: %v %v", locked, err)
	}
	defer holder.lock.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New(path).Append(ctx, Record{AudioFilename: "a.wav"}); err == nil {
		t.Fatal("expected error when lock is held and context cancelled")
	}
}

func TestReadMissingFile(t *testing.T) {
	records, err := Read(filepath.Join(t.TempDir(), "none.csv"))
	if err != nil || records != nil {
		t.Fatalf("expected empty read, got %v %v", records, err)
	}
}

func TestReadRejectsBadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metric.csv")
	if err := os.WriteFile(path, []byte("audio_filename,wer,per\na.wav,abc,0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Fatal("expected parse error")
	}
}
