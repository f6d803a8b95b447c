package corpus

import (
	"regexp"
	"strings"
)

// matchCleaner drops everything that is neither a word character, whitespace,
// nor in the Arabic script block (U+0600-U+06FF). The explicit Arabic range
// keeps diacritics (harakat) that \p{L} alone would strip.
var (
	matchCleaner  = regexp.MustCompile(`[^\p{L}\p{N}_\s` + "؀-ۿ" + `]+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes free text for FTS matching: punctuation removed,
// whitespace runs collapsed to single spaces, leading/trailing whitespace
// trimmed. Pure and idempotent; empty input yields empty output.
func Normalize(text string) string {
	cleaned := matchCleaner.ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(cleaned, " "))
}
