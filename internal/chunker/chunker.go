// Package chunker splits raw document text into fixed-size overlapping
// segments, the atomic unit of retrieval.
//
// Splitting works on runes, not bytes, so multi-byte characters are never
// cut in half.
package chunker

import "strings"

// Default chunking parameters. 1000 characters with a 200-character overlap
// keeps each chunk small enough to embed while preserving context across
// chunk boundaries.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Split splits text into overlapping segments of at most size runes.
// Consecutive segments share overlap runes; the final segment is truncated
// to the remaining text rather than padded.
//
// The input is trimmed of leading/trailing whitespace first. Text that fits
// in a single chunk is returned as a one-element slice. Split is
// deterministic and never produces an empty segment.
//
// size must be > 0 and overlap must be in [0, size); out-of-range values are
// clamped to the defaults.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultOverlap
		if overlap >= size {
			overlap = size / 5
		}
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		return []string{string(runes)}
	}

	step := size - overlap
	chunks := make([]string, 0, (len(runes)-overlap+step-1)/step)

	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
