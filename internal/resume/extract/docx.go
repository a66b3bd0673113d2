package extract

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
	docxBreaks   = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:cr\s*/>`)
	docxTabs     = regexp.MustCompile(`<w:tab\s*/>`)
	blankPadding = regexp.MustCompile(`[ \t]+\n`)
)

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	return docxText(doc.Editable().GetContent()), nil
}

// docxText flattens WordprocessingML into text: paragraphs and breaks end a line.
func docxText(content string) string {
	content = docxBreaks.ReplaceAllString(content, "\n")
	content = docxTabs.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = blankPadding.ReplaceAllString(content, "\n")
	return strings.TrimSpace(content)
}
