// Package static serves precomputed hypotheses from text files, so a corpus
// can be re-scored without running a speech model again.
package static
