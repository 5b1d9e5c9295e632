package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	audioKey contextKey = "audio"
	stageKey contextKey = "stage"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithAudio annotates context with the audio file being processed.
func WithAudio(ctx context.Context, audio string) context.Context {
	if audio == "" {
		return ctx
	}
	return context.WithValue(ctx, audioKey, audio)
}

// AudioFromContext returns the audio file name if present.
func AudioFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(audioKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
