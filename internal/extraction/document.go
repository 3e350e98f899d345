package extraction

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"
)

// DocumentText derives the raw text an extractor operates on. PDFs are
// read through their embedded text layer; everything else is treated as
// plain UTF-8 text. Scanned images have no text layer and are out of
// scope here.
func DocumentText(data []byte, contentType string) (string, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "application/pdf" || bytes.HasPrefix(data, []byte("%PDF")) {
		return pdfText(data)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("document is not valid UTF-8 text (content type %q)", contentType)
	}
	return string(data), nil
}

// pdfText concatenates the text layer of every page.
func pdfText(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		page, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("reading PDF page %d: %w", n, err)
		}
		b.WriteString(page)
		b.WriteString("\n")
	}
	return b.String(), nil
}
