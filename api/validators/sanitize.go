package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps free-text input at
// maxLen bytes. A maxLen of zero disables truncation. Truncation may cut a
// multi-byte rune, so the invalid tail is dropped afterwards.
func SanitizeString(input string, maxLen int) string {
	cleaned := strings.TrimSpace(input)
	if maxLen > 0 && len(cleaned) > maxLen {
		cleaned = strings.ToValidUTF8(cleaned[:maxLen], "")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}
