// Package utils provides small text helpers shared across packages.
package utils

import (
	"strings"
	"unicode/utf8"
)

// CollapseWhitespace replaces every run of whitespace with a single space and trims the ends.
func CollapseWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// FirstRunes returns at most n leading characters of str.
func FirstRunes(str string, n int) string {
	if utf8.RuneCountInString(str) <= n {
		return str
	}

	count := 0
	for i := range str {
		if count == n {
			return str[:i]
		}
		count++
	}

	return str
}
