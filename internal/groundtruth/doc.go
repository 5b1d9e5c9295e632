// Package groundtruth resolves the reference transcript of a LibriSpeech
// utterance from its chapter sidecar file.
//
// An audio file named {speaker}-{chapter}-{utterance}.<ext> is described by a
// line in {speaker}-{chapter}.trans.txt in the same directory. The first line
// that starts with the utterance id wins; matching is by prefix, not token
// boundary. A missing sidecar or a missing line is reported through Outcome
// rather than as an error, so callers can keep scoring the rest of a corpus.
package groundtruth
