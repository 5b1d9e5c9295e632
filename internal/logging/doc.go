// Package logging builds the slog loggers used by the librieval CLI and the
// batch runner.
//
// It owns the console and JSON handlers, level parsing, and output routing
// (stderr plus an optional log file). Context helpers tag lines with the run
// ID, the audio file, and the pipeline stage carried on a context.Context, so
// per-file log lines can be correlated with ledger rows.
package logging
