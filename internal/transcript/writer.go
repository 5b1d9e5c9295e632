package transcript

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"librieval/internal/fileutil"
	"librieval/internal/services"
)

// Supported output formats.
const (
	FormatTXT  = "txt"
	FormatTSV  = "tsv"
	FormatSRT  = "srt"
	FormatVTT  = "vtt"
	FormatJSON = "json"
)

// Write renders result in format and stores it as <dir>/<base>.<format>.
// It returns the written path.
func Write(result Result, dir, base, format string) (string, error) {
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatTXT:
		data = []byte(renderTXT(result))
	case FormatTSV:
		data = []byte(renderTSV(result))
	case FormatSRT:
		data = []byte(renderSRT(result))
	case FormatVTT:
		data = []byte(renderVTT(result))
	case FormatJSON:
		data, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode transcript json: %w", err)
		}
		data = append(data, '\n')
	default:
		return "", services.Wrap(services.ErrValidation, "write", "transcript", fmt.Sprintf("unsupported format %q", format), nil)
	}

	path := filepath.Join(dir, base+"."+format)
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write transcript %s: %w", path, err)
	}
	return path, nil
}

// WriteAll writes result once per format and returns the written paths in order.
func WriteAll(result Result, dir, base string, formats []string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path, err := Write(result, dir, base, format)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func renderTXT(result Result) string {
	var b strings.Builder
	lines := 0
	for _, seg := range result.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
		lines++
	}
	if lines == 0 {
		if text := strings.TrimSpace(result.Text); text != "" {
			b.WriteString(text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderTSV(result Result) string {
	var b strings.Builder
	b.WriteString("start\tend\ttext\n")
	for _, seg := range result.Segments {
		b.WriteString(strconv.FormatInt(Milliseconds(seg.Start), 10))
		b.WriteByte('\t')
		b.WriteString(strconv.FormatInt(Milliseconds(seg.End), 10))
		b.WriteByte('\t')
		b.WriteString(strings.ReplaceAll(strings.TrimSpace(seg.Text), "\t", " "))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderSRT(result Result) string {
	var b strings.Builder
	for i, seg := range result.Segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1,
			formatTimestamp(Milliseconds(seg.Start), ','),
			formatTimestamp(Milliseconds(seg.End), ','),
			strings.TrimSpace(seg.Text),
		)
	}
	return b.String()
}

func renderVTT(result Result) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, seg := range result.Segments {
		fmt.Fprintf(&b, "%s --> %s\n%s\n\n",
			formatTimestamp(Milliseconds(seg.Start), '.'),
			formatTimestamp(Milliseconds(seg.End), '.'),
			strings.TrimSpace(seg.Text),
		)
	}
	return b.String()
}

func formatTimestamp(ms int64, sep byte) string {
	hours := ms / 3_600_000
	ms -= hours * 3_600_000
	minutes := ms / 60_000
	ms -= minutes * 60_000
	seconds := ms / 1000
	ms -= seconds * 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, ms)
}
