package scoring

import (
	"math"
	"strings"
	"sync"
	"testing"
)

const epsilon = 1e-12

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		hyp  string
		wer  float64
		per  float64
	}{
		{"deletion", "A B C", "A B", 1.0 / 3.0, 1.0 / 3.0},
		{"insertion", "A B", "A B C", 0.5, 0.5},
		{"identical", "THE QUICK BROWN FOX", "THE QUICK BROWN FOX", 0, 0},
		{"case mismatch", "THE QUICK BROWN FOX", "the quick brown fox", 1, 1},
		{"shifted", "A B C D", "X A B C D", 0.25, 1.25},
		{"substitution", "A B C", "A X C", 1.0 / 3.0, 1.0 / 3.0},
		{"whitespace", "  A\tB \n C ", "A B C", 0, 0},
		{"empty both", "", "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WER(tt.ref, tt.hyp); !approx(got, tt.wer) {
				t.Fatalf("WER = %v, want %v", got, tt.wer)
			}
			if got := PER(tt.ref, tt.hyp); !approx(got, tt.per) {
				t.Fatalf("PER = %v, want %v", got, tt.per)
			}
		})
	}
}

func TestPERZeroForEmptyReference(t *testing.T) {
	for _, hyp := range []string{"", "A", "A B C D E", "   "} {
		if got := PER("", hyp); got != 0 {
			t.Fatalf("PER(\"\", %q) = %v", hyp, got)
		}
		if got := PER("  \t ", hyp); got != 0 {
			t.Fatalf("PER(blank, %q) = %v", hyp, got)
		}
	}
}

func TestIdenticalTextsScoreZero(t *testing.T) {
	for _, text := range []string{"A", "HELLO WORLD", "ONE TWO THREE FOUR FIVE SIX", "repeat repeat repeat"} {
		result := NewScorer().Score(text, text)
		if result.WER != 0 || result.PER != 0 || result.Distance != 0 {
			t.Fatalf("expected zero scores for %q, got %+v", text, result)
		}
	}
}

func TestWERMonotonicUnderEdits(t *testing.T) {
	ref := strings.Fields("MISTER QUILTER IS THE APOSTLE OF THE MIDDLE CLASSES")
	hyp := append([]string(nil), ref...)
	prev := WER(strings.Join(ref, " "), strings.Join(hyp, " "))
	if prev != 0 {
		t.Fatalf("expected 0 for identical, got %v", prev)
	}
	// substitute, then delete, then insert, one edit per step
	edits := []func([]string) []string{
		func(w []string) []string { w[0] = "MR"; return w },
		func(w []string) []string { w[3] = "A"; return w },
		func(w []string) []string { return w[:len(w)-1] },
		func(w []string) []string { return append(w, "EXTRA") },
		func(w []string) []string { return append([]string{"UM"}, w...) },
		func(w []string) []string { w[5] = "OFF"; return w },
	}
	for i, edit := range edits {
		hyp = edit(hyp)
		got := WER(strings.Join(ref, " "), strings.Join(hyp, " "))
		if got < prev {
			t.Fatalf("edit %d decreased WER from %v to %v", i, prev, got)
		}
		prev = got
	}
}

func TestWordDistanceTreatsWordsAtomically(t *testing.T) {
	if got := WordDistance([]string{"cat"}, []string{"cot"}); got != 1 {
		t.Fatalf("expected one substitution, got %d", got)
	}
	if got := WordDistance([]string{"a", "b"}, []string{"b", "a"}); got != 2 {
		t.Fatalf("expected swap to cost 2, got %d", got)
	}
	if got := WordDistance(nil, []string{"x", "y"}); got != 2 {
		t.Fatalf("expected insertions only, got %d", got)
	}
}

func TestEmptyReferencePolicies(t *testing.T) {
	tests := []struct {
		policy EmptyReferencePolicy
		want   float64
	}{
		{EmptyReferenceOne, 1},
		{EmptyReferenceZero, 0},
		{EmptyReferenceInsertions, 3},
	}
	for _, tt := range tests {
		result := NewScorer(WithEmptyReferencePolicy(tt.policy)).Score("", "X Y Z")
		if result.WER != tt.want {
			t.Fatalf("policy %s: WER = %v, want %v", tt.policy, result.WER, tt.want)
		}
		if !result.RefEmpty || result.PER != 0 || result.HypWords != 3 {
			t.Fatalf("policy %s: unexpected result %+v", tt.policy, result)
		}
		empty := NewScorer(WithEmptyReferencePolicy(tt.policy)).Score("", "")
		if empty.WER != 0 || !empty.RefEmpty {
			t.Fatalf("policy %s: expected 0 for empty pair, got %+v", tt.policy, empty)
		}
	}
}

func TestScoreDistanceMatchesWER(t *testing.T) {
	tests := []struct {
		ref  string
		hyp  string
		dist int
	}{
		{"A B C", "A B C", 0},
		{"A B C", "A X C", 1},
		{"A B C D", "B C D E", 2},
		{"HELLO WORLD", "", 2},
		{"", "X Y", 2},
	}
	scorer := NewScorer()
	for _, tt := range tests {
		result := scorer.Score(tt.ref, tt.hyp)
		if result.Distance != tt.dist {
			t.Fatalf("%q vs %q: distance = %d, want %d", tt.ref, tt.hyp, result.Distance, tt.dist)
		}
		if result.RefWords > 0 && !approx(result.WER, float64(result.Distance)/float64(result.RefWords)) {
			t.Fatalf("%q vs %q: WER %v inconsistent with distance %d", tt.ref, tt.hyp, result.WER, result.Distance)
		}
		if !approx(result.WER, WER(tt.ref, tt.hyp)) {
			t.Fatalf("%q vs %q: Score WER %v differs from WER %v", tt.ref, tt.hyp, result.WER, WER(tt.ref, tt.hyp))
		}
	}
}

func TestParseEmptyReferencePolicy(t *testing.T) {
	if p, err := ParseEmptyReferencePolicy(" Insertions "); err != nil || p != EmptyReferenceInsertions {
		t.Fatalf("unexpected parse %v %v", p, err)
	}
	if p, err := ParseEmptyReferencePolicy(""); err != nil || p != EmptyReferenceOne {
		t.Fatalf("unexpected default %v %v", p, err)
	}
	if _, err := ParseEmptyReferencePolicy("nan"); err == nil {
		t.Fatal("expected error")
	}
}

func TestScorerNormalization(t *testing.T) {
	literal := NewScorer().Score("THE QUICK BROWN FOX", "the quick brown fox")
	if literal.WER != 1 {
		t.Fatalf("expected full mismatch without normalization, got %v", literal.WER)
	}
	normalized := NewScorer(WithNormalization()).Score("THE QUICK BROWN FOX", "The quick, brown fox!")
	if normalized.WER != 0 || normalized.PER != 0 {
		t.Fatalf("expected match with normalization, got %+v", normalized)
	}
}

func TestNormalizer(t *testing.T) {
	n := NewNormalizer()
	tests := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello world"},
		{"DON’T stop", "don't stop"},
		{"Café", "café"},
		{"  spaced\t\tout  ", "spaced out"},
		{"-- ...", ""},
	}
	for _, tt := range tests {
		if got := n.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizerConcurrent(t *testing.T) {
	n := NewNormalizer()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := n.Normalize("MISTER Quilter."); got != "mister quilter" {
				t.Errorf("unexpected %q", got)
			}
		}()
	}
	wg.Wait()
}
