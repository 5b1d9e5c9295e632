package scoring

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes transcript text before comparison.
type Normalizer struct {
	mu     sync.Mutex
	folder cases.Caser
}

// NewNormalizer returns a Normalizer that applies NFC, case folding, and
// punctuation stripping (apostrophes are kept).
func NewNormalizer() *Normalizer {
	return &Normalizer{folder: cases.Fold()}
}

// Normalize returns text in canonical form with single spaces between words.
func (n *Normalizer) Normalize(text string) string {
	text = norm.NFC.String(text)

	// cases.Caser keeps state between calls
	n.mu.Lock()
	text = n.folder.String(text)
	n.mu.Unlock()

	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\'' || r == '’':
			return '\''
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			return ' '
		default:
			return r
		}
	}, text)
	return strings.Join(strings.Fields(text), " ")
}
