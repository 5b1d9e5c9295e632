// Package language normalizes the transcription language setting into the
// forms each backend expects (ISO 639-1 for WhisperX and AssemblyAI).
package language
