package scoring

// Result bundles both metrics for one reference/hypothesis pair.
type Result struct {
	WER      float64
	PER      float64
	RefWords int
	HypWords int
	// Distance is the word-level edit distance behind WER.
	Distance int
	// RefEmpty marks scores computed against a reference with no words, where
	// WER follows the configured policy.
	RefEmpty bool
}

// Scorer applies an optional normalizer and an empty-reference policy.
type Scorer struct {
	policy     EmptyReferencePolicy
	normalizer *Normalizer
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithEmptyReferencePolicy overrides the default EmptyReferenceOne policy.
func WithEmptyReferencePolicy(policy EmptyReferencePolicy) Option {
	return func(s *Scorer) {
		if policy != "" {
			s.policy = policy
		}
	}
}

// WithNormalization enables NFC normalization, case folding, and punctuation
// stripping on both sides before tokenizing.
func WithNormalization() Option {
	return func(s *Scorer) {
		s.normalizer = NewNormalizer()
	}
}

// NewScorer constructs a Scorer. Without options it compares text literally.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{policy: EmptyReferenceOne}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy reports the empty-reference policy in effect.
func (s *Scorer) Policy() EmptyReferencePolicy {
	return s.policy
}

// Normalizes reports whether text is normalized before scoring.
func (s *Scorer) Normalizes() bool {
	return s.normalizer != nil
}

// Score computes WER and PER for reference and hypothesis.
func (s *Scorer) Score(reference, hypothesis string) Result {
	if s.normalizer != nil {
		reference = s.normalizer.Normalize(reference)
		hypothesis = s.normalizer.Normalize(hypothesis)
	}
	ref := Tokenize(reference)
	hyp := Tokenize(hypothesis)

	distance := WordDistance(ref, hyp)
	wer := emptyReferenceWER(len(hyp), s.policy)
	if len(ref) > 0 {
		wer = float64(distance) / float64(len(ref))
	}
	return Result{
		WER:      wer,
		PER:      per(ref, hyp),
		RefWords: len(ref),
		HypWords: len(hyp),
		Distance: distance,
		RefEmpty: len(ref) == 0,
	}
}
