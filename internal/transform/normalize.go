package transform

import (
	"strings"
	"time"
	"unicode"
)

// NormalizeDate parses s against the accepted input layouts and rewrites it
// to YYYY-MM-DD. The second return is false when no layout matches.
func NormalizeDate(s string) (string, bool) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Format(isoDate), true
		}
	}
	return "", false
}

// TitleCase trims s and capitalizes the first letter of each
// whitespace-separated token, lowercasing the rest. Applying it twice
// yields the same result as applying it once.
func TitleCase(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		runes := []rune(strings.ToLower(tok))
		runes[0] = unicode.ToUpper(runes[0])
		tokens[i] = string(runes)
	}
	return strings.Join(tokens, " ")
}
