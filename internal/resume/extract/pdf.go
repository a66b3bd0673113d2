package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

func extractPDF(data []byte) (text string, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := pageLines(page)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		buf.WriteString(pageText)
		if i < numPages {
			buf.WriteByte('\n')
		}
	}
	return buf.String(), nil
}

// pageLines writes one line per text row, top to bottom.
// Pages without row information fall back to the plain text stream.
func pageLines(page pdf.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil || len(rows) == 0 {
		return page.GetPlainText(nil)
	}
	return joinRows(rows), nil
}

func joinRows(rows pdf.Rows) string {
	var buf strings.Builder
	for _, row := range rows {
		for _, word := range row.Content {
			buf.WriteString(word.S)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}
