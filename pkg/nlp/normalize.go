package nlp

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	meridiemDotsPattern = regexp.MustCompile(`\b([ap])\.\s?m\.?`)
	whitespacePattern   = regexp.MustCompile(`\s+`)
	quoteReplacer       = strings.NewReplacer("‘", "'", "’", "'", "“", `"`, "”", `"`)
)

// Normalize folds compatibility characters, lowercases and collapses whitespace.
// "p.m." style markers become "pm" so the time patterns stay simple.
func Normalize(text string) string {
	text = norm.NFKC.String(text)
	text = quoteReplacer.Replace(text)
	text = strings.ToLower(text)
	text = meridiemDotsPattern.ReplaceAllString(text, "${1}m")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
