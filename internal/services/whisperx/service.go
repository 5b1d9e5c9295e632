package whisperx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	langpkg "librieval/internal/language"
	"librieval/internal/services"
	"librieval/internal/transcript"
)

// Service provides WhisperX transcription capabilities.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Name identifies the backend in logs and run history.
func (s *Service) Name() string {
	return "whisperx"
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// TranscribeFile transcribes an audio file and returns its segments.
func (s *Service) TranscribeFile(ctx context.Context, source, language string) (transcript.Result, error) {
	if source == "" {
		return transcript.Result{}, services.Wrap(services.ErrValidation, "transcribe", "whisperx", "source path required", nil)
	}
	if _, err := os.Stat(source); err != nil {
		return transcript.Result{}, services.Wrap(services.ErrValidation, "transcribe", "whisperx", "stat source", err)
	}

	if s.cfg.WorkDir != "" {
		if err := os.MkdirAll(s.cfg.WorkDir, 0o755); err != nil {
			return transcript.Result{}, fmt.Errorf("whisperx: ensure work dir: %w", err)
		}
	}
	outputDir, err := os.MkdirTemp(s.cfg.WorkDir, "whisperx-*")
	if err != nil {
		return transcript.Result{}, fmt.Errorf("whisperx: create scratch dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	name, args := s.command(source, outputDir, language)
	if err := s.run(ctx, name, args...); err != nil {
		if ctx.Err() != nil {
			return transcript.Result{}, ctx.Err()
		}
		return transcript.Result{}, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "run", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	payload, err := loadPayload(jsonPath)
	if err != nil {
		return transcript.Result{}, services.Wrap(services.ErrExternalTool, "transcribe", "whisperx", "read output", err)
	}

	lang := payload.Language
	if lang == "" {
		lang = langpkg.ToISO2(language)
	}
	segments := make([]transcript.Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		segments = append(segments, transcript.Segment{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return transcript.FromSegments(lang, segments), nil
}

// command builds the executable and arguments for one transcription.
func (s *Service) command(source, outputDir, language string) (string, []string) {
	args := make([]string, 0, 40)
	name := strings.TrimSpace(s.cfg.Binary)
	if name == "" {
		name = UVXCommand
		if s.cfg.CUDAEnabled {
			args = append(args,
				"--index-url", CUDAIndexURL,
				"--extra-index-url", PypiIndexURL,
			)
		} else {
			args = append(args, "--index-url", PypiIndexURL)
		}
		args = append(args, "whisperx")
	}

	args = append(args,
		source,
		"--model", s.Model(),
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
		"--beam_size", BeamSize,
		"--temperature", Temperature,
	)

	vadMethod := s.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)
	if vadMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}

	return name, args
}

// Word represents a single word with timing from WhisperX output. Words the
// aligner could not place have no timings.
type Word struct {
	Word  string           `json:"word"`
	Start *decimal.Decimal `json:"start"`
	End   *decimal.Decimal `json:"end"`
}

// Segment represents a transcribed segment from WhisperX JSON output.
type Segment struct {
	Text  string          `json:"text"`
	Start decimal.Decimal `json:"start"`
	End   decimal.Decimal `json:"end"`
	Words []Word          `json:"words"`
}

type payload struct {
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

func loadPayload(jsonPath string) (payload, error) {
	var p payload
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse whisperx json: %w", err)
	}
	return p, nil
}

// LoadSegments loads segments from a WhisperX JSON file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	p, err := loadPayload(jsonPath)
	if err != nil {
		return nil, err
	}
	return p.Segments, nil
}
