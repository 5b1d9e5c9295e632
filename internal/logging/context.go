package logging

import (
	"context"
	"log/slog"

	"librieval/internal/services"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies a batch run.
	FieldRunID = "run_id"
	// FieldAudio is the audio file currently being processed.
	FieldAudio = "audio"
	// FieldStage is the pipeline stage (transcribe, resolve, score, append).
	FieldStage = "stage"
	// FieldEventType classifies notable log lines for filtering.
	FieldEventType = "event_type"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if audio, ok := services.AudioFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldAudio, audio))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
