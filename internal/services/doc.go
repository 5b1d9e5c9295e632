// Package services holds the pieces shared by the transcription backends and
// the batch runner.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, audio file names, and stage names
//     for logging.
//   - Structured error markers plus the Wrap helper, used to decide whether a
//     failed transcription is retried and how it is recorded in run history.
//
// Backend subpackages (whisperx, assemblyai, static) each expose a Service
// with a TranscribeFile method consumed by the batch runner.
package services
