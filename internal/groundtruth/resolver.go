package groundtruth

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"librieval/internal/services"
)

// Reason explains why a reference could not be resolved.
type Reason int

const (
	// Unknown is the zero value; no lookup has classified the outcome.
	Unknown Reason = iota
	// Resolved means the reference was found.
	Resolved
	// NotFoundMissingFile means the sidecar transcript file does not exist.
	NotFoundMissingFile
	// NotFoundMissingLine means the sidecar exists but no line starts with the id.
	NotFoundMissingLine
	// ReadFailed means the sidecar exists but could not be read.
	ReadFailed
)

func (r Reason) String() string {
	switch r {
	case Unknown:
		return "unknown"
	case Resolved:
		return "resolved"
	case NotFoundMissingFile:
		return "missing_file"
	case NotFoundMissingLine:
		return "missing_line"
	case ReadFailed:
		return "read_failed"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// ErrNotFound is wrapped by Outcome.Err for unresolved references.
var ErrNotFound = fmt.Errorf("reference transcript %w", services.ErrNotFound)

// Outcome is the result of resolving one audio file.
type Outcome struct {
	Found bool
	// Text is the reference transcript. Empty when Found is false.
	Text string
	// Reason is Resolved when Found is true.
	Reason Reason
	// Message describes a not-found outcome for logs and CLI output.
	Message string
	// TranscriptPath is the sidecar file consulted.
	TranscriptPath string
	ID             UtteranceID
}

// Err returns nil for a found outcome and an error wrapping ErrNotFound otherwise.
func (o Outcome) Err() error {
	if o.Found {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, o.Message)
}

// Resolver looks up reference transcripts. The zero value rescans the sidecar
// on every call.
type Resolver struct {
	cache *sidecarCache
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache keeps parsed sidecar lines in memory for the lifetime of the
// Resolver. Safe for concurrent use.
func WithCache() Option {
	return func(r *Resolver) {
		r.cache = &sidecarCache{files: make(map[string][]string)}
	}
}

// NewResolver constructs a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds the reference transcript for audioPath. Missing sidecars and
// missing lines are reported in the Outcome. Only real I/O failures return an
// error.
func (r *Resolver) Resolve(audioPath string) (Outcome, error) {
	id := ParseUtteranceID(audioPath)
	path := TranscriptPath(audioPath)
	outcome := Outcome{ID: id, TranscriptPath: path}

	lines, err := r.lines(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			outcome.Reason = NotFoundMissingFile
			outcome.Message = fmt.Sprintf("transcript file %s does not exist", path)
			return outcome, nil
		}
		outcome.Reason = ReadFailed
		outcome.Message = fmt.Sprintf("transcript file %s could not be read: %v", path, err)
		return outcome, fmt.Errorf("read transcript %s: %w", path, err)
	}

	for _, line := range lines {
		if !strings.HasPrefix(line, id.Raw) {
			continue
		}
		outcome.Found = true
		outcome.Reason = Resolved
		outcome.Text = referenceText(line)
		return outcome, nil
	}

	outcome.Reason = NotFoundMissingLine
	outcome.Message = fmt.Sprintf("transcript for %s not found in %s", id.Raw, path)
	return outcome, nil
}

// referenceText returns everything after the first space of the trimmed line.
// A line without a space yields an empty reference.
func referenceText(line string) string {
	trimmed := strings.TrimSpace(line)
	_, text, ok := strings.Cut(trimmed, " ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}

func (r *Resolver) lines(path string) ([]string, error) {
	if r == nil || r.cache == nil {
		return readLines(path)
	}
	return r.cache.get(path)
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// sidecarCache stores sidecar lines in file order so first-match-wins holds.
// Missing files are not cached; a sidecar created later is picked up.
type sidecarCache struct {
	mu    sync.RWMutex
	files map[string][]string
}

func (c *sidecarCache) get(path string) ([]string, error) {
	c.mu.RLock()
	lines, ok := c.files[path]
	c.mu.RUnlock()
	if ok {
		return lines, nil
	}

	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.files[path]; ok {
		lines = existing
	} else {
		c.files[path] = lines
	}
	c.mu.Unlock()
	return lines, nil
}
