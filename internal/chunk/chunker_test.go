package chunk

import (
	"strings"
	"testing"
)

func TestChunker_EmptyInput(t *testing.T) {
	c := NewChunker(1000, 150)

	if got := c.Split(""); len(got) != 0 {
		t.Errorf("Expected no chunks for empty input, got %d", len(got))
	}
	if got := c.Split("   \n\t  "); len(got) != 0 {
		t.Errorf("Expected no chunks for whitespace input, got %d", len(got))
	}
}

func TestChunker_SingleWindow(t *testing.T) {
	c := NewChunker(1000, 150)
	text := "A short document that fits in one window."

	chunks := c.Split(text)
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Start != 0 || chunks[0].End != len(text) {
		t.Errorf("Expected offsets [0,%d), got [%d,%d)", len(text), chunks[0].Start, chunks[0].End)
	}
	if chunks[0].Text != text {
		t.Errorf("Chunk text altered: %q", chunks[0].Text)
	}
}

func TestChunker_OverlapAndCoverage(t *testing.T) {
	c := NewChunker(100, 20)
	text := strings.Repeat("abcdefghij", 35) // 350 chars

	chunks := c.Split(text)
	if len(chunks) < 4 {
		t.Fatalf("Expected at least 4 chunks, got %d", len(chunks))
	}

	for i, ch := range chunks {
		if ch.Idx != i {
			t.Errorf("Chunk %d has idx %d", i, ch.Idx)
		}
		if ch.End-ch.Start > 100 {
			t.Errorf("Chunk %d exceeds window: %d chars", i, ch.End-ch.Start)
		}
		if i > 0 {
			overlap := chunks[i-1].End - ch.Start
			if overlap != 20 {
				t.Errorf("Chunk %d overlap = %d, want 20", i, overlap)
			}
		}
	}

	last := chunks[len(chunks)-1]
	if last.End != len(text) {
		t.Errorf("Final chunk ends at %d, want %d", last.End, len(text))
	}
}

func TestChunker_NormalizesCRLF(t *testing.T) {
	c := NewChunker(1000, 150)
	chunks := c.Split("line one\r\nline two")
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if strings.Contains(chunks[0].Text, "\r") {
		t.Error("CRLF not normalized in chunk text")
	}
}

func TestChunker_BadArgsFallBack(t *testing.T) {
	c := NewChunker(0, -5)
	if c.windowSize != 1000 || c.overlap != 150 {
		t.Errorf("Expected defaults, got window=%d overlap=%d", c.windowSize, c.overlap)
	}

	// Overlap >= window must not loop forever
	c = NewChunker(50, 60)
	chunks := c.Split(strings.Repeat("x", 200))
	if len(chunks) == 0 {
		t.Fatal("Expected chunks")
	}
}
