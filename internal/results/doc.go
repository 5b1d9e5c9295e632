// Package results keeps run history in SQLite: one row per batch run and one
// row per scored utterance, including the hypothesis and reference text.
//
// The CSV ledger stays the primary output. The store adds what the ledger
// cannot hold: run-level counters for the report command and content hashes
// that let a resumed run skip audio already scored with the same backend,
// model, and language. Schema changes ship as embedded migrations.
package results
