// Package scoring computes word-level error rates between a reference
// transcript and a hypothesis.
//
// WER is the word-level Levenshtein distance divided by the number of
// reference words. PER is a positional rate: words are compared index by
// index with no realignment, and the leftover words of the longer sequence
// count as deletions or insertions. Despite the name it is not a phoneme
// error rate; ledgers written by earlier tooling use the same label.
package scoring
