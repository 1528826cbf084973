package pdfextract

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Result is the extracted plain text of a PDF, kept per page so chunks can
// carry page attribution.
type Result struct {
	Pages []string
	Text  string
}

// Extract reads the whole PDF and returns its plain text. Pages that fail to
// decode are kept as empty strings rather than aborting the document.
func Extract(r io.ReaderAt, size int64) (*Result, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from PDF: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	var all strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
		if all.Len() > 0 {
			all.WriteString("\n")
		}
		all.WriteString(text)
	}

	return &Result{Pages: pages, Text: all.String()}, nil
}
