// Package analysis provides the word-level text matching used to classify
// free-text questions. Matching is case-insensitive and respects word
// boundaries, so "hi" matches "Hi there" but not "this".
package analysis

import (
	"strings"
	"unicode"
)

// Tokens lower-cases text and splits it into words on anything that is not a
// letter or digit.
func Tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ContainsPhrase reports whether phrase occurs in tokens as consecutive whole words.
func ContainsPhrase(tokens []string, phrase string) bool {
	want := Tokens(phrase)
	if len(want) == 0 || len(want) > len(tokens) {
		return false
	}
	for i := 0; i+len(want) <= len(tokens); i++ {
		match := true
		for j, w := range want {
			if tokens[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// MatchAny returns the first phrase found in tokens.
func MatchAny(tokens []string, phrases []string) (string, bool) {
	for _, p := range phrases {
		if ContainsPhrase(tokens, p) {
			return p, true
		}
	}
	return "", false
}
