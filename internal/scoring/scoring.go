package scoring

import (
	"fmt"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// EmptyReferencePolicy decides WER when the reference has no words and the
// hypothesis does.
type EmptyReferencePolicy string

const (
	// EmptyReferenceOne scores every such case as 1.0.
	EmptyReferenceOne EmptyReferencePolicy = "one"
	// EmptyReferenceZero scores every such case as 0.0.
	EmptyReferenceZero EmptyReferencePolicy = "zero"
	// EmptyReferenceInsertions scores the raw hypothesis word count.
	EmptyReferenceInsertions EmptyReferencePolicy = "insertions"
)

// ParseEmptyReferencePolicy validates a configured policy name.
func ParseEmptyReferencePolicy(value string) (EmptyReferencePolicy, error) {
	switch p := EmptyReferencePolicy(strings.ToLower(strings.TrimSpace(value))); p {
	case "":
		return EmptyReferenceOne, nil
	case EmptyReferenceOne, EmptyReferenceZero, EmptyReferenceInsertions:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported empty reference policy %q", value)
	}
}

var unitCosts = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// Tokenize splits text on runs of Unicode whitespace.
func Tokenize(text string) []string {
	return strings.Fields(text)
}

// WordDistance returns the minimum number of word substitutions, insertions,
// and deletions turning ref into hyp.
func WordDistance(ref, hyp []string) int {
	if len(ref) == 0 {
		return len(hyp)
	}
	if len(hyp) == 0 {
		return len(ref)
	}
	source, target := internWords(ref, hyp)
	return levenshtein.DistanceForStrings(source, target, unitCosts)
}

// internWords maps each distinct word to a distinct rune so the rune-based
// edit distance operates on whole words.
func internWords(ref, hyp []string) ([]rune, []rune) {
	ids := make(map[string]rune, len(ref)+len(hyp))
	encode := func(words []string) []rune {
		out := make([]rune, len(words))
		for i, word := range words {
			id, ok := ids[word]
			if !ok {
				id = rune(len(ids))
				ids[word] = id
			}
			out[i] = id
		}
		return out
	}
	return encode(ref), encode(hyp)
}

// WER returns the word error rate using EmptyReferenceOne for an empty reference.
func WER(reference, hypothesis string) float64 {
	return werWithPolicy(Tokenize(reference), Tokenize(hypothesis), EmptyReferenceOne)
}

func werWithPolicy(ref, hyp []string, policy EmptyReferencePolicy) float64 {
	if len(ref) == 0 {
		return emptyReferenceWER(len(hyp), policy)
	}
	return float64(WordDistance(ref, hyp)) / float64(len(ref))
}

// emptyReferenceWER applies policy when the reference has no words.
func emptyReferenceWER(hypWords int, policy EmptyReferencePolicy) float64 {
	if hypWords == 0 {
		return 0
	}
	switch policy {
	case EmptyReferenceZero:
		return 0
	case EmptyReferenceInsertions:
		return float64(hypWords)
	default:
		return 1
	}
}

// PositionalErrors counts index-wise substitutions plus unmatched trailing
// words on either side.
func PositionalErrors(ref, hyp []string) int {
	shorter := min(len(ref), len(hyp))
	errors := 0
	for i := 0; i < shorter; i++ {
		if ref[i] != hyp[i] {
			errors++
		}
	}
	errors += len(ref) - shorter
	errors += len(hyp) - shorter
	return errors
}

// PER returns the positional word error rate. An empty reference scores 0.
func PER(reference, hypothesis string) float64 {
	return per(Tokenize(reference), Tokenize(hypothesis))
}

func per(ref, hyp []string) float64 {
	if len(ref) == 0 {
		return 0
	}
	return float64(PositionalErrors(ref, hyp)) / float64(len(ref))
}
