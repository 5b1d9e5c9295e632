package transcript

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Segment is a timed span of recognized speech.
type Segment struct {
	Start decimal.Decimal `json:"start"`
	End   decimal.Decimal `json:"end"`
	Text  string          `json:"text"`
}

// Result is a backend's hypothesis for one audio file.
type Result struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// FromSegments builds a Result whose Text joins the trimmed, non-empty
// segment texts with single spaces.
func FromSegments(language string, segments []Segment) Result {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return Result{
		Text:     strings.Join(parts, " "),
		Language: language,
		Segments: segments,
	}
}

var thousand = decimal.NewFromInt(1000)

// Milliseconds converts decimal seconds to whole milliseconds, rounding half
// away from zero. Negative values clamp to zero.
func Milliseconds(seconds decimal.Decimal) int64 {
	ms := seconds.Mul(thousand).Round(0).IntPart()
	if ms < 0 {
		return 0
	}
	return ms
}
