package utils

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrEmptyPattern   = errors.New("empty pattern")
	ErrPatternTooLong = errors.New("pattern too long")
	ErrPatternChars   = errors.New("pattern contains invalid characters")
)

// IsSeparator checks if a rune is a separator users type between letters
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-'
}

// CleanPattern trims surrounding space and drops separators, so "c a t" and
// "c-a-t" both become "cat".
func CleanPattern(s string) string {
	return strings.Map(func(r rune) rune {
		if IsSeparator(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// CheckPattern reports why a cleaned pattern cannot be queried. A maxLen
// below one disables the length check. Letters of any script are accepted;
// digits, punctuation and control characters other than the wildcard are not.
func CheckPattern(s string, wildcard rune, maxLen int) error {
	if len(s) == 0 {
		return ErrEmptyPattern
	}
	if maxLen > 0 && len([]rune(s)) > maxLen {
		return fmt.Errorf("%w: %d characters, at most %d", ErrPatternTooLong, len([]rune(s)), maxLen)
	}
	if ContainsSpecialChars(s, wildcard) {
		return fmt.Errorf("%w: %q", ErrPatternChars, s)
	}
	return nil
}

// IsOnlyWildcards checks if a pattern constrains nothing
func IsOnlyWildcards(s string, wildcard rune) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if r != wildcard {
			return false
		}
	}
	return true
}

// ContainsSpecialChars checks if a string has anything besides letters and the wildcard
func ContainsSpecialChars(s string, wildcard rune) bool {
	for _, r := range s {
		if r != wildcard && !unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
