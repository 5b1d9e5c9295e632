package collate

import (
	"errors"
	"fmt"
)

// DefaultMaxSamples is 35 seconds of 16 kHz audio.
const DefaultMaxSamples = 16000 * 35

// ErrEmptyBatch is returned by Pad when there is nothing to collate.
var ErrEmptyBatch = errors.New("collate: empty batch")

// Batch holds equally sized samples.
type Batch struct {
	Samples [][]float32
	// Lengths are the number of real (non-padding) samples kept per entry.
	Lengths []int
	// Truncated counts entries cut to the cap.
	Truncated int
	// Width is the common length of every entry in Samples.
	Width int
}

// Pad copies batch into a Batch whose entries all have the batch maximum
// length, bounded by maxLen. maxLen must be positive.
func Pad(batch [][]float32, maxLen int) (Batch, error) {
	if len(batch) == 0 {
		return Batch{}, ErrEmptyBatch
	}
	if maxLen <= 0 {
		return Batch{}, fmt.Errorf("collate: max length must be positive, got %d", maxLen)
	}

	width := 0
	for _, sample := range batch {
		width = max(width, len(sample))
	}
	width = min(width, maxLen)

	out := Batch{
		Samples: make([][]float32, len(batch)),
		Lengths: make([]int, len(batch)),
		Width:   width,
	}
	for i, sample := range batch {
		padded := make([]float32, width)
		n := copy(padded, sample)
		out.Samples[i] = padded
		out.Lengths[i] = n
		if len(sample) > width {
			out.Truncated++
		}
	}
	return out, nil
}

// Chunk splits the index range [0, n) into consecutive [start, end) pairs of
// at most size elements. A non-positive size yields one chunk.
func Chunk(n, size int) [][2]int {
	if n <= 0 {
		return nil
	}
	if size <= 0 || size > n {
		size = n
	}
	chunks := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		chunks = append(chunks, [2]int{start, min(start+size, n)})
	}
	return chunks
}
