package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"librieval/internal/collate"
	"librieval/internal/config"
	"librieval/internal/fileutil"
	"librieval/internal/groundtruth"
	"librieval/internal/ledger"
	"librieval/internal/logging"
	"librieval/internal/results"
	"librieval/internal/scoring"
	"librieval/internal/services"
	"librieval/internal/transcript"
)

// Transcriber produces a hypothesis for one audio file.
type Transcriber interface {
	TranscribeFile(ctx context.Context, audioPath, language string) (transcript.Result, error)
}

// describer is implemented by backends that can name themselves for history.
type describer interface {
	Name() string
	Model() string
}

// chunkFactor sets how many files per worker are in flight before the
// ordered ledger flush.
const chunkFactor = 4

// Runner processes a corpus. Construct with New.
type Runner struct {
	cfg         *config.Config
	transcriber Transcriber
	resolver    *groundtruth.Resolver
	scorer      *scoring.Scorer
	ledger      *ledger.Ledger
	history     *results.Store
	logger      *slog.Logger
	newBackOff  func() backoff.BackOff
	newRunID    func() string
	backend     string
	model       string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHistory records runs and scores in store and enables resume.
func WithHistory(store *results.Store) Option {
	return func(r *Runner) {
		r.history = store
	}
}

// WithBackOff replaces the retry schedule between transcription attempts.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(r *Runner) {
		if factory != nil {
			r.newBackOff = factory
		}
	}
}

// WithRunIDGenerator replaces the UUID run ID source.
func WithRunIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newRunID = fn
		}
	}
}

// New builds a Runner from configuration and an injected transcriber.
func New(cfg *config.Config, transcriber Transcriber, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("batch: config is nil")
	}
	if transcriber == nil {
		return nil, errors.New("batch: transcriber is nil")
	}
	policy, err := scoring.ParseEmptyReferencePolicy(cfg.Scoring.EmptyReference)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "scoring", "empty reference policy", err)
	}
	scorerOpts := []scoring.Option{scoring.WithEmptyReferencePolicy(policy)}
	if cfg.Scoring.Normalize {
		scorerOpts = append(scorerOpts, scoring.WithNormalization())
	}

	r := &Runner{
		cfg:         cfg,
		transcriber: transcriber,
		resolver:    groundtruth.NewResolver(groundtruth.WithCache()),
		scorer:      scoring.NewScorer(scorerOpts...),
		ledger:      ledger.New(cfg.Paths.LedgerPath),
		logger:      logging.NewNop(),
		newBackOff:  defaultBackOff,
		newRunID:    uuid.NewString,
		backend:     cfg.Transcription.Backend,
		model:       cfg.Transcription.Model,
	}
	if d, ok := transcriber.(describer); ok {
		r.backend = d.Name()
		r.model = d.Model()
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "runner")
	return r, nil
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 2 * time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// Run processes every supported file under inputDir.
func (r *Runner) Run(ctx context.Context, inputDir string) (Summary, error) {
	started := time.Now()
	summary := Summary{RunID: r.newRunID(), LedgerPath: r.ledger.Path()}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)

	if err := os.MkdirAll(r.cfg.Paths.OutputDir, 0o755); err != nil {
		return summary, fmt.Errorf("ensure output directory: %w", err)
	}

	files, err := Discover(inputDir, r.cfg.SupportsExtension)
	if err != nil {
		return summary, err
	}
	logger.Info("run started",
		logging.String("input_dir", inputDir),
		logging.Int("files", len(files)),
		logging.String("backend", r.backend),
		logging.Int("workers", r.cfg.Runner.Workers),
	)

	if r.history != nil {
		if err := r.history.StartRun(ctx, results.Run{
			ID:        summary.RunID,
			StartedAt: started,
			InputDir:  inputDir,
			Backend:   r.backend,
			Model:     r.model,
			Language:  r.cfg.Transcription.Language,
		}); err != nil {
			return summary, fmt.Errorf("record run start: %w", err)
		}
	}

	runErr := r.processAll(ctx, files, &summary)
	summary.Duration = time.Since(started)
	summary.finalize()

	status := results.RunStatusCompleted
	switch {
	case runErr != nil && ctx.Err() != nil:
		status = results.RunStatusCancelled
	case runErr != nil:
		status = results.RunStatusFailed
	}
	if r.history != nil {
		run := summary.toRun(status)
		if runErr != nil {
			run.LastError = runErr.Error()
		}
		// the run context may already be cancelled
		if err := r.history.FinishRun(context.WithoutCancel(ctx), run); err != nil {
			logger.Warn("record run finish failed", logging.Error(err))
		}
	}

	logger.Info("run finished",
		logging.String("status", string(status)),
		logging.Int("processed", summary.Processed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Int("missing_reference", summary.MissingReference),
		logging.Float64("mean_wer", summary.MeanWER),
		logging.Float64("mean_per", summary.MeanPER),
		logging.Duration("duration", summary.Duration),
	)
	return summary, runErr
}

func (r *Runner) processAll(ctx context.Context, files []string, summary *Summary) error {
	workers := max(r.cfg.Runner.Workers, 1)
	chunkSize := workers
	if workers > 1 {
		chunkSize = workers * chunkFactor
	}

	for _, bounds := range collate.Chunk(len(files), chunkSize) {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk := files[bounds[0]:bounds[1]]
		outcomes := make([]fileOutcome, len(chunk))

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(workers)
		for i, path := range chunk {
			group.Go(func() error {
				outcomes[i] = r.processFile(groupCtx, path)
				return nil
			})
		}
		_ = group.Wait()

		for _, outcome := range outcomes {
			if err := r.commit(ctx, outcome, summary); err != nil {
				return err
			}
		}
	}
	return nil
}

// commit folds one outcome into the summary and appends its ledger row.
func (r *Runner) commit(ctx context.Context, o fileOutcome, summary *Summary) error {
	fileCtx := services.WithAudio(ctx, filepath.Base(o.path))
	logger := logging.WithContext(fileCtx, r.logger)

	if o.missingReference {
		summary.MissingReference++
	}

	switch {
	case o.err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		summary.Failed++
		logger.Error("file failed",
			logging.String(logging.FieldEventType, "file_failed"),
			logging.String("kind", services.FailureKind(o.err)),
			logging.Error(o.err),
		)
		if r.cfg.Runner.FailFast {
			return fmt.Errorf("process %s: %w", o.path, o.err)
		}
		return nil
	case o.skipped:
		summary.Skipped++
		logger.Info("file skipped", logging.String("reason", o.skipReason))
		return nil
	}

	appendCtx := services.WithStage(fileCtx, "append")
	record := ledger.Record{AudioFilename: filepath.Base(o.path), WER: o.score.WER, PER: o.score.PER}
	if err := r.ledger.Append(appendCtx, record); err != nil {
		return fmt.Errorf("append ledger row for %s: %w", o.path, err)
	}
	summary.add(o.score)

	if r.history != nil {
		err := r.history.RecordScore(appendCtx, results.Score{
			RunID:          summary.RunID,
			AudioPath:      o.path,
			AudioFilename:  record.AudioFilename,
			AudioHash:      o.hash,
			Backend:        r.backend,
			Model:          r.model,
			Language:       r.cfg.Transcription.Language,
			ReferenceFound: !o.missingReference,
			RefEmpty:       o.score.RefEmpty,
			WER:            o.score.WER,
			PER:            o.score.PER,
			Hypothesis:     o.hypothesis,
			Reference:      o.reference,
		})
		if err != nil {
			logger.Warn("record score history failed", logging.Error(err))
		}
	}

	logger.Info("file scored",
		logging.Float64("wer", o.score.WER),
		logging.Float64("per", o.score.PER),
		logging.Int("ref_words", o.score.RefWords),
		logging.Bool("reference_found", !o.missingReference),
	)
	return nil
}

type fileOutcome struct {
	path             string
	hash             string
	hypothesis       string
	reference        string
	score            scoring.Result
	missingReference bool
	skipped          bool
	skipReason       string
	err              error
}

func (r *Runner) processFile(ctx context.Context, path string) fileOutcome {
	out := fileOutcome{path: path}
	ctx = services.WithAudio(ctx, filepath.Base(path))
	logger := logging.WithContext(ctx, r.logger)

	if r.history != nil {
		hash, err := fileutil.HashFile(path)
		if err != nil {
			out.err = services.Wrap(services.ErrValidation, "hash", "audio", path, err)
			return out
		}
		out.hash = hash
		if r.cfg.Runner.Resume {
			seen, err := r.history.HasScore(ctx, results.Fingerprint{
				AudioHash: hash,
				Backend:   r.backend,
				Model:     r.model,
				Language:  r.cfg.Transcription.Language,
			})
			if err != nil {
				out.err = err
				return out
			}
			if seen {
				out.skipped = true
				out.skipReason = "already scored"
				return out
			}
		}
	}

	resolveCtx := services.WithStage(ctx, "resolve")
	reference, err := r.resolver.Resolve(path)
	if err != nil {
		out.err = err
		return out
	}
	if !reference.Found {
		out.missingReference = true
		logging.WithContext(resolveCtx, r.logger).Warn("reference transcript not found",
			logging.String(logging.FieldEventType, "reference_missing"),
			logging.String("reason", reference.Reason.String()),
			logging.String("detail", reference.Message),
		)
		if r.cfg.Runner.SkipMissingReference {
			out.skipped = true
			out.skipReason = "missing reference"
			return out
		}
	}
	out.reference = reference.Text

	hypothesis, err := r.transcribe(services.WithStage(ctx, "transcribe"), path)
	if err != nil {
		out.err = err
		return out
	}
	out.hypothesis = hypothesis.Text

	out.score = r.scorer.Score(out.reference, out.hypothesis)

	id := groundtruth.ParseUtteranceID(path).Raw
	if _, err := transcript.WriteAll(hypothesis, r.cfg.Paths.OutputDir, id, r.cfg.Transcription.Formats); err != nil {
		out.err = err
		return out
	}
	logger.Debug("transcripts written", logging.Int("formats", len(r.cfg.Transcription.Formats)))
	return out
}

// transcribe calls the backend with a per-attempt timeout and retries
// retryable failures.
func (r *Runner) transcribe(ctx context.Context, path string) (transcript.Result, error) {
	logger := logging.WithContext(ctx, r.logger)
	timeout := time.Duration(r.cfg.Transcription.TimeoutSeconds) * time.Second
	language := r.cfg.Transcription.Language

	var result transcript.Result
	attempt := 0
	operation := func() error {
		attempt++
		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		res, err := r.transcriber.TranscribeFile(attemptCtx, path, language)
		cancel()
		if err == nil {
			result = res
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = services.Wrap(services.ErrTimeout, "transcribe", r.backend, fmt.Sprintf("attempt exceeded %s", timeout), err)
		}
		if !services.Retryable(err) {
			return backoff.Permanent(err)
		}
		logger.Warn("transcription attempt failed",
			logging.Int("attempt", attempt),
			logging.Error(err),
		)
		return err
	}

	retries := uint64(max(r.cfg.Transcription.MaxRetries, 0))
	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), retries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if attempt > 1 {
			err = fmt.Errorf("after %d attempts: %w", attempt, err)
		}
		return transcript.Result{}, err
	}
	return result, nil
}
