// Package chunk splits source text into fixed-size overlapping windows.
package chunk

import (
	"strings"

	"github.com/pkoval/claimlens/internal/model"
)

// Chunker produces character-window chunks with overlap.
type Chunker struct {
	windowSize int
	overlap    int
}

// NewChunker creates a chunker. Non-positive arguments fall back to the
// defaults (1000-char windows, 150-char overlap).
func NewChunker(windowSize, overlap int) *Chunker {
	if windowSize <= 0 {
		windowSize = 1000
	}
	if overlap < 0 || overlap >= windowSize {
		overlap = 150
		if overlap >= windowSize {
			overlap = windowSize / 4
		}
	}
	return &Chunker{windowSize: windowSize, overlap: overlap}
}

// Split chunks the input into ordered windows. Offsets index into the
// normalized text (CRLF collapsed, outer whitespace trimmed); the final
// chunk always ends at len(text). Empty input yields no chunks.
func (c *Chunker) Split(input string) []model.Chunk {
	text := Normalize(input)
	if text == "" {
		return nil
	}

	var chunks []model.Chunk
	start := 0
	idx := 0
	for start < len(text) {
		end := start + c.windowSize
		if end > len(text) {
			end = len(text)
		}

		chunks = append(chunks, model.Chunk{
			Idx:   idx,
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(text[start:end]),
		})

		if end == len(text) {
			break
		}
		start = end - c.overlap
		idx++
	}

	return chunks
}

// Normalize collapses CRLF line endings and trims outer whitespace.
// All chunk and claim offsets are relative to this normalized form.
func Normalize(input string) string {
	return strings.TrimSpace(strings.ReplaceAll(input, "\r\n", "\n"))
}
