package pdfextract

import (
	"strings"
	"testing"
)

func TestChunkPages_PageAttributionAndGlobalIndex(t *testing.T) {
	pages := []string{"first page text", "", "third page text"}

	chunks := ChunkPages(pages, 100)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].PageNumber != 1 || chunks[0].Content != "first page text" {
		t.Fatalf("unexpected first chunk: %+v", chunks[0])
	}
	if chunks[1].PageNumber != 3 || chunks[1].Index != 1 {
		t.Fatalf("unexpected second chunk: %+v", chunks[1])
	}
}

func TestChunkPages_SplitsLongPagesOnWhitespace(t *testing.T) {
	words := strings.Repeat("word ", 100) // 500 chars
	chunks := ChunkPages([]string{words}, 120)

	if len(chunks) < 4 {
		t.Fatalf("expected at least 4 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c.Content) > 120 {
			t.Fatalf("chunk %d exceeds max length: %d", i, len(c.Content))
		}
		if c.Index != i {
			t.Fatalf("chunk %d carries index %d", i, c.Index)
		}
		if strings.HasPrefix(c.Content, " ") || strings.HasSuffix(c.Content, " ") {
			t.Fatalf("chunk %d not trimmed: %q", i, c.Content)
		}
		if c.PageNumber != 1 {
			t.Fatalf("chunk %d on page %d, want 1", i, c.PageNumber)
		}
	}

	rejoined := strings.Join(collect(chunks), " ")
	if rejoined != strings.TrimSpace(words) {
		t.Fatalf("chunks lost content")
	}
}

func TestChunkPages_EmptyInput(t *testing.T) {
	if got := ChunkPages(nil, 100); len(got) != 0 {
		t.Fatalf("expected no chunks, got %d", len(got))
	}
	if got := ChunkPages([]string{"", "   "}, 100); len(got) != 0 {
		t.Fatalf("expected no chunks for blank pages, got %d", len(got))
	}
}

func collect(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Content
	}
	return out
}
