package form

import (
	"strings"
	"unicode"
)

// DefaultLabeler converts a field name into a human-friendly label. Words are
// split on underscores, dashes, spaces, camelCase humps and letter/digit
// boundaries; only the first word is capitalised ("job_description" becomes
// "Job description", "experience1" becomes "Experience 1").
func DefaultLabeler(name string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	var prev rune
	for i, r := range name {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			prev = 0
			continue
		case i > 0 && wordBoundary(prev, r):
			flush()
		}
		current = append(current, r)
		prev = r
	}
	flush()

	if len(words) == 0 {
		return ""
	}
	first := []rune(words[0])
	first[0] = unicode.ToUpper(first[0])
	words[0] = string(first)
	return strings.Join(words, " ")
}

func wordBoundary(prev, r rune) bool {
	if prev == 0 {
		return false
	}
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(r):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(r):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(r):
		return true
	}
	return false
}
