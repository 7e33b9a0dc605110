package utilities

import "strings"

// SplitAndTrim splits s around sep and trims surrounding whitespace from
// every field. Empty fields are kept so positional formats stay aligned.
func SplitAndTrim(s, sep string) []string {
	fields := strings.Split(s, sep)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
