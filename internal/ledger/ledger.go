package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// Header is the first row of every ledger.
var Header = []string{"audio_filename", "wer", "per"}

const lockRetryDelay = 25 * time.Millisecond

// Record is one scored utterance.
type Record struct {
	AudioFilename string
	WER           float64
	PER           float64
}

func (r Record) row() []string {
	return []string{r.AudioFilename, FormatFloat(r.WER), FormatFloat(r.PER)}
}

// FormatFloat renders a score with the shortest representation that round-trips.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Ledger appends records to a CSV file.
type Ledger struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// New returns a Ledger for path. The file is created on first Append.
func New(path string) *Ledger {
	return &Ledger{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.path
}

// Append writes rec, preceded by the header when the file is new or empty.
func (l *Ledger) Append(ctx context.Context, rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure ledger directory: %w", err)
		}
	}

	locked, err := l.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire ledger lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire ledger lock: %s is held by another process", l.lock.Path())
	}
	defer func() {
		_ = l.lock.Unlock()
	}()

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("stat ledger: %w", err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(Header); err != nil {
			_ = file.Close()
			return fmt.Errorf("write ledger header: %w", err)
		}
	}
	if err := writer.Write(rec.row()); err != nil {
		_ = file.Close()
		return fmt.Errorf("write ledger row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return fmt.Errorf("flush ledger: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	return nil
}

// Read parses every data row of the ledger at path. A missing file yields no
// records and no error.
func Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(Header)

	var records []Record
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse ledger: %w", err)
		}
		line++
		if line == 1 && row[0] == Header[0] {
			continue
		}
		wer, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parse ledger line %d wer: %w", line, err)
		}
		per, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parse ledger line %d per: %w", line, err)
		}
		records = append(records, Record{AudioFilename: row[0], WER: wer, PER: per})
	}
	return records, nil
}
