package corpus

import (
	"strings"
	"unicode/utf8"
)

// linesFromPlain splits UTF-8 text on newlines. Invalid UTF-8 sequences are replaced with the
// replacement character and "\r\n" endings are treated as "\n".
func linesFromPlain(content []byte) []string {
	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\ufffd")
	}
	if text == "" {
		return []string{}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
