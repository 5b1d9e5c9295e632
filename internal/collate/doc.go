// Package collate pads decoded audio into fixed-length batches and splits
// work lists into batches.
//
// Pad follows the usual speech-model collation rule: every sample is padded
// with zeros at the end to the longest sample in the batch. The caller passes a
// hard cap, usually DefaultMaxSamples, that bounds memory; when the longest sample exceeds it, every sample is cut
// to the cap and the batch reports how many were truncated.
package collate
