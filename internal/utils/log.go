// Package utils holds small helpers shared by the backend client and the assistant.
package utils

import "strings"

// TruncateForLog returns a single-line preview of s of at most limit runes,
// appending an ellipsis when truncated. Payloads from the backend and model
// replies span many lines, which breaks console log output.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
