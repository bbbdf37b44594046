// Package util provides common string helpers shared by the command parsers and storage.
package util

import (
	"strings"
	"unicode"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// CleanArg unquotes a raw host argument and trims surrounding whitespace.
func CleanArg(s string) string {
	return strings.TrimSpace(FixEscapeQuotes(TrimQuotes(strings.TrimSpace(s))))
}

// SafeFileName reduces a map name to characters safe for a file name.
// Anything outside letters, digits, '_', '-' and '.' becomes '_', and a
// leading dot is dropped so the result can never escape its directory.
func SafeFileName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '_' || r == '-' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "_"
	}
	return out
}
