package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"librieval/internal/config"
	"librieval/internal/logging"
	"librieval/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Level = "debug"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "librieval.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "debug message") {
		t.Fatalf("expected debug line in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsSourceForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without source")
	logger.Debug("suppressed")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	if strings.Contains(text, ".go:") {
		t.Fatalf("expected no source information in info logs, got %q", text)
	}
	if strings.Contains(text, "suppressed") {
		t.Fatalf("expected debug line to be filtered, got %q", text)
	}
	if !strings.Contains(text, "INFO message without source") {
		t.Fatalf("unexpected console line %q", text)
	}
}

func TestConsoleLoggerPromotesComponent(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "component.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "runner").Info("scored", logging.Float64("wer", 0.25), logging.String("audio", "a b.flac"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "runner: scored") {
		t.Fatalf("expected component prefix, got %q", text)
	}
	if strings.Contains(text, "component=") {
		t.Fatalf("component should not be repeated as a field, got %q", text)
	}
	if !strings.Contains(text, "wer=0.25") || !strings.Contains(text, `audio="a b.flac"`) {
		t.Fatalf("expected formatted fields, got %q", text)
	}
}

func TestTimeAttributesUseSharedLayout(t *testing.T) {
	started := time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("CET", 3600))
	tests := []struct {
		format string
		want   string
	}{
		{format: "console", want: "started_at=2026-03-04T04:06:07Z"},
		{format: "json", want: `"started_at":"2026-03-04T04:06:07Z"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			logPath := filepath.Join(t.TempDir(), tt.format+".log")
			logger, err := logging.New(logging.Options{Format: tt.format, OutputPaths: []string{logPath}})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			logger.Info("run started", logging.Any("started_at", started), logging.Duration("elapsed", 1500*time.Millisecond))

			content, err := os.ReadFile(logPath)
			if err != nil {
				t.Fatalf("read log file: %v", err)
			}
			if !strings.Contains(string(content), tt.want) {
				t.Fatalf("expected %s in %q", tt.want, content)
			}
		})
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-123")
	ctx = services.WithAudio(ctx, "1272-128104-0000.flac")
	ctx = services.WithStage(ctx, "score")
	logging.WithContext(ctx, logger).Info("row appended")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &entry); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	want := map[string]string{
		"msg":    "row appended",
		"level":  "info",
		"run_id": "run-123",
		"audio":  "1272-128104-0000.flac",
		"stage":  "score",
	}
	for key, value := range want {
		if entry[key] != value {
			t.Fatalf("expected %s=%q, got %v", key, value, entry[key])
		}
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("expected ts key in %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", OutputPaths: []string{filepath.Join(t.TempDir(), "x.log")}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextWithoutFieldsReturnsSameLogger(t *testing.T) {
	logger := logging.NewNop()
	if got := logging.WithContext(context.Background(), logger); got != logger {
		t.Fatal("expected the same logger when context carries no fields")
	}
}
