package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"librieval/internal/config"
)

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the results database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("results: config is nil")
	}
	return OpenPath(cfg.Paths.ResultsDB)
}

// OpenPath opens the database at path.
func OpenPath(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("results: database path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure results directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartRun inserts a run in the running state.
func (s *Store) StartRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("start run: id is empty")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = RunStatusRunning
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, started_at, input_dir, backend, model, language, status)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		formatTime(run.StartedAt),
		run.InputDir,
		run.Backend,
		nullableString(run.Model),
		nullableString(run.Language),
		run.Status,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stores the final counters and status of a run.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs
         SET finished_at = ?, status = ?, processed = ?, skipped = ?, failed = ?,
             missing_reference = ?, mean_wer = ?, mean_per = ?, last_error = ?
         WHERE id = ?`,
		formatTime(run.FinishedAt),
		run.Status,
		run.Processed,
		run.Skipped,
		run.Failed,
		run.MissingReference,
		run.MeanWER,
		run.MeanPER,
		nullableString(run.LastError),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run: run %s not found", run.ID)
	}
	return nil
}

// RecordScore inserts a score row for a run.
func (s *Store) RecordScore(ctx context.Context, score Score) error {
	if score.CreatedAt.IsZero() {
		score.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scores (
            run_id, audio_path, audio_filename, audio_hash, backend, model, language,
            reference_found, ref_empty, wer, per, hypothesis, reference, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		score.RunID,
		score.AudioPath,
		score.AudioFilename,
		score.AudioHash,
		score.Backend,
		nullableString(score.Model),
		nullableString(score.Language),
		boolToInt(score.ReferenceFound),
		boolToInt(score.RefEmpty),
		score.WER,
		score.PER,
		score.Hypothesis,
		score.Reference,
		formatTime(score.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// HasScore reports whether audio with the same fingerprint was scored before.
func (s *Store) HasScore(ctx context.Context, fp Fingerprint) (bool, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM scores
         WHERE audio_hash = ? AND backend = ? AND IFNULL(model, '') = ? AND IFNULL(language, '') = ?`,
		fp.AudioHash, fp.Backend, fp.Model, fp.Language,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("lookup score: %w", err)
	}
	return count > 0, nil
}

const runColumns = "id, started_at, finished_at, input_dir, backend, model, language, status, processed, skipped, failed, missing_reference, mean_wer, mean_per, last_error"

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run by ID. It returns nil when the run does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

// ScoresForRun returns the score rows of a run in insertion order.
func (s *Store) ScoresForRun(ctx context.Context, runID string) ([]Score, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, audio_path, audio_filename, audio_hash, backend, model, language,
                reference_found, ref_empty, wer, per, hypothesis, reference, created_at
         FROM scores WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var scores []Score
	for rows.Next() {
		var (
			score          Score
			model          sql.NullString
			language       sql.NullString
			referenceFound int
			refEmpty       int
			hypothesis     sql.NullString
			reference      sql.NullString
			createdRaw     string
		)
		if err := rows.Scan(
			&score.RunID, &score.AudioPath, &score.AudioFilename, &score.AudioHash, &score.Backend,
			&model, &language, &referenceFound, &refEmpty, &score.WER, &score.PER,
			&hypothesis, &reference, &createdRaw,
		); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		score.Model = model.String
		score.Language = language.String
		score.ReferenceFound = referenceFound != 0
		score.RefEmpty = refEmpty != 0
		score.Hypothesis = hypothesis.String
		score.Reference = reference.String
		score.CreatedAt = parseTime(createdRaw)
		scores = append(scores, score)
	}
	return scores, rows.Err()
}
