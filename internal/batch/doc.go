// Package batch runs the transcribe, resolve, score, and append pipeline over
// a LibriSpeech-style corpus.
//
// Runner walks the input tree in lexical order and picks files by extension.
// Each file is transcribed (with bounded retries), matched against its
// sidecar reference, scored, written out in the configured transcript
// formats, and appended to the CSV ledger. Files are processed in chunks; with
// several workers the files of a chunk run in parallel, and their ledger rows
// are still appended in walk order once the chunk completes.
//
// Per-file failures are logged and counted unless fail-fast is enabled. A
// ledger append failure always stops the run.
package batch
