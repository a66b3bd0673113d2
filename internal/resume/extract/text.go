package extract

import (
	"strings"
	"unicode/utf8"
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func extractText(data []byte) string {
	s := string(data)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	s = strings.TrimPrefix(s, "\uFEFF")
	return lineEndings.Replace(s)
}
