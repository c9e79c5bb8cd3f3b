package common

import "unicode/utf8"

// TruncateUTF8 cuts s to at most max bytes, backing up to the previous rune
// boundary so the result is always valid UTF-8.
func TruncateUTF8(s string, max int) string {
	if max < 0 {
		max = 0
	}
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
