package batch

import (
	"time"

	"librieval/internal/results"
	"librieval/internal/scoring"
)

// Summary reports what a run did.
type Summary struct {
	RunID string
	// Processed counts files scored and appended to the ledger.
	Processed int
	// Skipped counts files left out by resume or a missing reference.
	Skipped int
	Failed  int
	// MissingReference counts files whose sidecar or line was absent,
	// whether they were scored against an empty reference or skipped.
	MissingReference int
	MeanWER          float64
	MeanPER          float64
	Duration         time.Duration
	LedgerPath       string

	sumWER float64
	sumPER float64
}

func (s *Summary) add(result scoring.Result) {
	s.Processed++
	s.sumWER += result.WER
	s.sumPER += result.PER
}

func (s *Summary) finalize() {
	if s.Processed == 0 {
		s.MeanWER, s.MeanPER = 0, 0
		return
	}
	s.MeanWER = s.sumWER / float64(s.Processed)
	s.MeanPER = s.sumPER / float64(s.Processed)
}

func (s Summary) toRun(status results.RunStatus) results.Run {
	return results.Run{
		ID:               s.RunID,
		Status:           status,
		Processed:        s.Processed,
		Skipped:          s.Skipped,
		Failed:           s.Failed,
		MissingReference: s.MissingReference,
		MeanWER:          s.MeanWER,
		MeanPER:          s.MeanPER,
	}
}
