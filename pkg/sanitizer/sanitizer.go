// Package sanitizer normalizes free-text input before validation and
// persistence. Handlers never store raw user strings.
package sanitizer

import (
	"strings"
	"unicode"
)

// SanitizeName cleans display names (vehicle names, usernames): control
// characters are dropped, whitespace is trimmed and collapsed.
func SanitizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}

	return collapseWhitespace(strings.TrimSpace(b.String()))
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
