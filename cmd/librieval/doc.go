// Package main hosts the librieval CLI entrypoint and command graph.
//
// The Cobra command tree runs the batch evaluation over a LibriSpeech tree,
// resolves single reference transcripts, scores ad-hoc sentence pairs,
// summarizes the CSV ledger and run history, and scaffolds configuration.
// Config resolution and logger construction live here; the work itself is
// in the internal packages.
package main
