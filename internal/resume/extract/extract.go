// Package extract turns uploaded resume files into plain text with one line
// per visual row or paragraph, the shape the section parser expects.
package extract

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files that are not PDF, DOCX or plain text
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format identifies a supported upload format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	contentTypeTXT  = "text/plain"
)

// ContentType is the canonical MIME type stored for the format
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return contentTypePDF
	case FormatDOCX:
		return contentTypeDOCX
	default:
		return contentTypeTXT + "; charset=utf-8"
	}
}

// DetectFormat picks the format from the file extension, falling back to the
// declared content type when the extension is missing or unknown.
func DetectFormat(fileName, contentType string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt", ".text":
		return FormatTXT, nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileName)
	}
	switch mediaType {
	case contentTypePDF:
		return FormatPDF, nil
	case contentTypeDOCX:
		return FormatDOCX, nil
	case contentTypeTXT:
		return FormatTXT, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
}

// Extract returns the text content of data read as format
func Extract(format Format, data []byte) (string, error) {
	switch format {
	case FormatPDF:
		return extractPDF(data)
	case FormatDOCX:
		return extractDOCX(data)
	case FormatTXT:
		return extractText(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
