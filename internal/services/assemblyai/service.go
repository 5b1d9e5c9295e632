package assemblyai

import (
	"context"
	"io"
	"os"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/shopspring/decimal"

	langpkg "librieval/internal/language"
	"librieval/internal/services"
	"librieval/internal/transcript"
)

// transcriber is the subset of the SDK transcript service used here.
type transcriber interface {
	TranscribeFromReader(ctx context.Context, reader io.Reader, params *aai.TranscriptOptionalParams) (aai.Transcript, error)
}

// Service provides AssemblyAI transcription capabilities.
type Service struct {
	api transcriber
}

// NewService builds a Service authenticated with apiKey.
func NewService(apiKey string) (*Service, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "assemblyai", "api key required", nil)
	}
	client := aai.NewClient(apiKey)
	return &Service{api: client.Transcripts}, nil
}

// Name identifies the backend in logs and run history.
func (s *Service) Name() string {
	return "assemblyai"
}

// Model reports the hosted model label recorded in run history.
func (s *Service) Model() string {
	return "best"
}

// TranscribeFile uploads source and waits for the completed transcript.
func (s *Service) TranscribeFile(ctx context.Context, source, language string) (transcript.Result, error) {
	file, err := os.Open(source)
	if err != nil {
		return transcript.Result{}, services.Wrap(services.ErrValidation, "transcribe", "assemblyai", "open source", err)
	}
	defer file.Close()

	params := &aai.TranscriptOptionalParams{}
	if lang := langpkg.ToISO2(language); lang != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(lang)
	}

	result, err := s.api.TranscribeFromReader(ctx, file, params)
	if err != nil {
		if ctx.Err() != nil {
			return transcript.Result{}, ctx.Err()
		}
		return transcript.Result{}, services.Wrap(services.ErrExternalTool, "transcribe", "assemblyai", "request", err)
	}
	if result.Status == aai.TranscriptStatusError {
		msg := "transcript failed"
		if result.Error != nil {
			msg = *result.Error
		}
		return transcript.Result{}, services.Wrap(services.ErrExternalTool, "transcribe", "assemblyai", msg, nil)
	}

	return toResult(result, langpkg.ToISO2(language)), nil
}

func toResult(t aai.Transcript, fallbackLanguage string) transcript.Result {
	lang := string(t.LanguageCode)
	if lang == "" {
		lang = fallbackLanguage
	}

	var segments []transcript.Segment
	if len(t.Utterances) > 0 {
		segments = make([]transcript.Segment, 0, len(t.Utterances))
		for _, utt := range t.Utterances {
			segments = append(segments, transcript.Segment{
				Start: milliseconds(utt.Start),
				End:   milliseconds(utt.End),
				Text:  deref(utt.Text),
			})
		}
	} else if len(t.Words) > 0 {
		words := make([]string, 0, len(t.Words))
		for _, w := range t.Words {
			if text := strings.TrimSpace(deref(w.Text)); text != "" {
				words = append(words, text)
			}
		}
		segments = []transcript.Segment{{
			Start: milliseconds(t.Words[0].Start),
			End:   milliseconds(t.Words[len(t.Words)-1].End),
			Text:  strings.Join(words, " "),
		}}
	}

	if len(segments) == 0 {
		return transcript.Result{Text: strings.TrimSpace(deref(t.Text)), Language: lang}
	}
	result := transcript.FromSegments(lang, segments)
	if text := strings.TrimSpace(deref(t.Text)); text != "" {
		result.Text = text
	}
	return result
}

func milliseconds(v *int64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.New(*v, -3)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
