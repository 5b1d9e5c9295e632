package groundtruth

import (
	"path/filepath"
	"strings"
)

// TranscriptSuffix is appended to the chapter key to name a sidecar file.
const TranscriptSuffix = ".trans.txt"

// UtteranceID is the parsed base name of a LibriSpeech audio file.
type UtteranceID struct {
	Raw       string
	Speaker   string
	Chapter   string
	Utterance string
}

// ParseUtteranceID derives the utterance id from an audio path by stripping
// the directory and the extension. Names with fewer than three hyphen fields
// leave the missing parts empty.
func ParseUtteranceID(audioPath string) UtteranceID {
	base := filepath.Base(audioPath)
	raw := strings.TrimSuffix(base, filepath.Ext(base))
	id := UtteranceID{Raw: raw}
	parts := strings.SplitN(raw, "-", 3)
	id.Speaker = parts[0]
	if len(parts) > 1 {
		id.Chapter = parts[1]
	}
	if len(parts) > 2 {
		id.Utterance = parts[2]
	}
	return id
}

// TranscriptKey joins the first two hyphen fields of the id. An id without a
// hyphen yields itself.
func (u UtteranceID) TranscriptKey() string {
	fields := strings.Split(u.Raw, "-")
	if len(fields) > 2 {
		fields = fields[:2]
	}
	return strings.Join(fields, "-")
}

// String returns the raw id.
func (u UtteranceID) String() string {
	return u.Raw
}

// TranscriptPath returns the sidecar path expected for audioPath.
func TranscriptPath(audioPath string) string {
	id := ParseUtteranceID(audioPath)
	return filepath.Join(filepath.Dir(audioPath), id.TranscriptKey()+TranscriptSuffix)
}
