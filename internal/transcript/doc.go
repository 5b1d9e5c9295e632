// Package transcript defines the hypothesis produced by a transcription
// backend and writes it to disk in the supported subtitle and text formats.
//
// Segment timings are decimal seconds as reported by the backends. Writers
// convert them to integer milliseconds when formatting timestamps.
package transcript
