// Package whisperx transcribes audio files by running the WhisperX CLI.
//
// By default the CLI is launched through uvx so no Python environment has to
// be managed; Config.Binary points at a local install instead. Each call
// writes WhisperX JSON output into a scratch directory, parses the segments
// with decimal timings, and removes the directory again.
package whisperx
