// Package sanitize neutralises user supplied free text before it is stored.
package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	scriptBlock = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	styleBlock  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	scriptTag   = regexp.MustCompile(`(?i)</?script\b[^>]*>`)
)

// Text strips script and style blocks plus stray script tags, trims surrounding
// whitespace, escapes what remains and truncates to max runes. Other angle
// brackets survive as entities. An escaped
// entity is never cut in half. max <= 0 disables truncation.
func Text(s string, max int) string {
	if s == "" {
		return ""
	}
	s = scriptBlock.ReplaceAllString(s, "")
	s = styleBlock.ReplaceAllString(s, "")
	s = scriptTag.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = html.EscapeString(s)
	if max > 0 && utf8.RuneCountInString(s) > max {
		s = truncate(s, max)
	}
	return s
}

// Optional applies Text to a nullable field. Blank input becomes nil.
func Optional(s *string, max int) *string {
	if s == nil {
		return nil
	}
	out := Text(*s, max)
	if out == "" {
		return nil
	}
	return &out
}

func truncate(s string, max int) string {
	runes := []rune(s)[:max]
	// back off if the cut landed inside an entity such as &amp;
	if amp := lastIndexRune(runes, '&'); amp >= 0 && lastIndexRune(runes[amp:], ';') < 0 {
		runes = runes[:amp]
	}
	return strings.TrimRightFunc(string(runes), func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' })
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
