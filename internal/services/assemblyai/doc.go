// Package assemblyai transcribes audio files with the hosted AssemblyAI API.
//
// Files are uploaded with the official Go SDK, which polls until the
// transcript completes. Word timings (milliseconds) become decimal-second
// segments, one per utterance when the API returns utterances and otherwise
// a single segment spanning all words.
package assemblyai
