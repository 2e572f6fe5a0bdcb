package services

import (
	"strings"
	"unicode"
)

// CleanText normalizes extracted document text before it reaches the section
// extractor: control characters are dropped, runs of spaces and tabs collapse
// to one space, blank lines are removed, and lines are trimmed. The extractor
// assumes its input has already been through this.
func CleanText(raw string) string {
	var out strings.Builder
	out.Grow(len(raw))

	for _, r := range raw {
		switch {
		case r == '\n':
			out.WriteRune(r)
		case unicode.IsControl(r):
			out.WriteRune(' ')
		default:
			out.WriteRune(r)
		}
	}

	lines := strings.Split(out.String(), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
