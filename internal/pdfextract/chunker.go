package pdfextract

import "strings"

// DefaultChunkSize is roughly a paragraph or two of extracted text.
const DefaultChunkSize = 1200

type Chunk struct {
	Index      int
	PageNumber int
	Content    string
}

// ChunkPages splits per-page text into chunks of at most maxLen characters,
// breaking on whitespace where possible. Chunk indexes are global across the
// document; page numbers are 1-based.
func ChunkPages(pages []string, maxLen int) []Chunk {
	if maxLen <= 0 {
		maxLen = DefaultChunkSize
	}

	var chunks []Chunk
	index := 0
	for pageIdx, pageText := range pages {
		for _, content := range splitText(pageText, maxLen) {
			chunks = append(chunks, Chunk{
				Index:      index,
				PageNumber: pageIdx + 1,
				Content:    content,
			})
			index++
		}
	}
	return chunks
}

func splitText(text string, maxLen int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var parts []string
	for len(text) > maxLen {
		cut := maxLen
		// Prefer the last whitespace inside the window so words stay whole.
		if idx := strings.LastIndexAny(text[:maxLen], " \t\n"); idx > 0 {
			cut = idx
		}
		part := strings.TrimSpace(text[:cut])
		if part != "" {
			parts = append(parts, part)
		}
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
