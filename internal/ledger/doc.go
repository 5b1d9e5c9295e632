// Package ledger appends per-utterance scores to a CSV file shared across runs.
//
// The file starts with the header audio_filename,wer,per, written once when
// the file is created or found empty. Every Append opens the file, writes one
// row, and closes it again. Appends from one process are serialized by a
// mutex; appends from separate processes take an advisory lock on
// <ledger>.lock. Rows are never rewritten or deduplicated.
package ledger
