package static

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"librieval/internal/services"
	"librieval/internal/transcript"
)

// Service reads <dir>/<utterance id>.txt for each audio file.
type Service struct {
	dir string
}

// NewService returns a Service reading hypotheses from dir.
func NewService(dir string) (*Service, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "static", "hypothesis dir", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "static", dir+" is not a directory", nil)
	}
	return &Service{dir: dir}, nil
}

// Name identifies the backend in logs and run history.
func (s *Service) Name() string {
	return "static"
}

// Model returns the hypothesis directory, which is what distinguishes one
// static run from another.
func (s *Service) Model() string {
	return s.dir
}

// TranscribeFile returns the stored hypothesis for source. Lines are joined
// with single spaces.
func (s *Service) TranscribeFile(ctx context.Context, source, language string) (transcript.Result, error) {
	if err := ctx.Err(); err != nil {
		return transcript.Result{}, err
	}
	base := filepath.Base(source)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	path := filepath.Join(s.dir, id+".txt")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return transcript.Result{}, services.Wrap(services.ErrNotFound, "transcribe", "static", "no hypothesis for "+id, err)
		}
		return transcript.Result{}, services.Wrap(services.ErrExternalTool, "transcribe", "static", "read hypothesis", err)
	}
	return transcript.Result{
		Text:     strings.Join(strings.Fields(string(data)), " "),
		Language: language,
	}, nil
}
