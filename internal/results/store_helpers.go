package results

import (
	"database/sql"
	"time"
)

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw sql.NullString
		model       sql.NullString
		language    sql.NullString
		status      string
		meanWER     sql.NullFloat64
		meanPER     sql.NullFloat64
		lastError   sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.InputDir,
		&run.Backend,
		&model,
		&language,
		&status,
		&run.Processed,
		&run.Skipped,
		&run.Failed,
		&run.MissingReference,
		&meanWER,
		&meanPER,
		&lastError,
	); err != nil {
		return Run{}, err
	}
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	run.Model = model.String
	run.Language = language.String
	run.Status = RunStatus(status)
	run.MeanWER = meanWER.Float64
	run.MeanPER = meanPER.Float64
	run.LastError = lastError.String
	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
