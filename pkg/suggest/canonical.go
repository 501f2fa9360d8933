// Package suggest provides local, offline suggestion helpers: keyword
// extraction for tags and title matching over entity text. It is the
// fallback path when the AI adapter is not configured, and never leaves
// the process.
package suggest

import (
	"strings"
	"unicode"
)

// isJoiner reports punctuation that commonly appears inside names and terms
// and should survive canonicalization ("O'Brien", "Jean-Luc", "v1.5").
func isJoiner(r rune) bool {
	switch r {
	case '\'', '’', '‘',
		'-', '–', '—',
		'.', '_', '/', '&':
		return true
	default:
		return false
	}
}

// canonicalize normalizes text for matching: lowercase, joiners kept,
// every other non-alphanumeric run collapsed to a single space. Patterns
// and haystacks must go through the same function or matches drift.
func canonicalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	lastWasSpace := true
	for _, ch := range s {
		c := unicode.ToLower(ch)

		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoiner(c) {
			out.WriteRune(c)
			lastWasSpace = false
		} else if !lastWasSpace {
			out.WriteRune(' ')
			lastWasSpace = true
		}
	}

	result := out.String()
	if len(result) > 0 && result[len(result)-1] == ' ' {
		result = result[:len(result)-1]
	}
	return result
}

// tokenize splits canonicalized text into word tokens, stripping joiner
// punctuation from token edges so "luffy." and "luffy" count as one word.
func tokenize(s string) []string {
	fields := strings.Fields(canonicalize(s))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'-._/&")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
