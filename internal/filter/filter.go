// Package filter decides whether a candidate text snippet qualifies as a
// usable quote.
package filter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinLength is the minimum trimmed length of an acceptable quote. Anything
// shorter is a label or fragment, not a quote.
const MinLength = 20

var newlineRuns = regexp.MustCompile(`[\r\n]+`)

// Normalize collapses internal newline runs to single spaces and trims
// surrounding whitespace. No other normalization (case, punctuation) applies.
func Normalize(candidate string) string {
	return strings.TrimSpace(newlineRuns.ReplaceAllString(candidate, " "))
}

// Accept reports whether the candidate qualifies as a usable quote after
// normalization. Strings containing a path separator are rejected regardless
// of length; they are file-path artifacts mistakenly captured as quotes.
func Accept(candidate string) bool {
	normalized := Normalize(candidate)
	if normalized == "" {
		return false
	}
	if utf8.RuneCountInString(normalized) < MinLength {
		return false
	}
	if strings.ContainsAny(normalized, `/\`) {
		return false
	}
	return true
}
