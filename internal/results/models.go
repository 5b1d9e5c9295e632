package results

import "time"

// RunStatus tracks the lifecycle of a batch run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Run is one invocation of the batch runner.
type Run struct {
	ID               string
	StartedAt        time.Time
	FinishedAt       time.Time
	InputDir         string
	Backend          string
	Model            string
	Language         string
	Status           RunStatus
	Processed        int
	Skipped          int
	Failed           int
	MissingReference int
	MeanWER          float64
	MeanPER          float64
	LastError        string
}

// Score is the history row for one scored utterance.
type Score struct {
	RunID          string
	AudioPath      string
	AudioFilename  string
	AudioHash      string
	Backend        string
	Model          string
	Language       string
	ReferenceFound bool
	RefEmpty       bool
	WER            float64
	PER            float64
	Hypothesis     string
	Reference      string
	CreatedAt      time.Time
}

// Fingerprint identifies audio scored under one backend configuration.
type Fingerprint struct {
	AudioHash string
	Backend   string
	Model     string
	Language  string
}
