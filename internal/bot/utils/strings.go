package utils

import (
	"strconv"
	"strings"
)

// Ellipsis is appended to text shortened by TruncateString.
const Ellipsis = "..."

// TruncateString shortens s to at most maxLength characters, ending it with an ellipsis when cut.
func TruncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= len(Ellipsis) {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-len(Ellipsis)]) + Ellipsis
}

// ClampString cuts s to at most maxLength characters without an ellipsis.
func ClampString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength])
}

// NormalizeString replaces newlines with spaces and removes backticks
// so user text cannot break out of inline markdown.
func NormalizeString(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "`", "")
}

// Mention formats a user mention.
func Mention(id uint64) string {
	return "<@" + strconv.FormatUint(id, 10) + ">"
}

// FormatIDs formats user IDs as mentions separated by spaces.
// At most limit mentions are written; the rest collapse into a single "…".
func FormatIDs(ids []uint64, limit int) string {
	if len(ids) == 0 {
		return ""
	}

	shown := ids
	if limit >= 0 && len(ids) > limit {
		shown = ids[:limit]
	}

	mentions := make([]string, 0, len(shown)+1)
	for _, id := range shown {
		mentions = append(mentions, Mention(id))
	}
	if len(shown) < len(ids) {
		mentions = append(mentions, "…")
	}

	return strings.Join(mentions, " ")
}

// Quote renders text as a markdown block quote.
func Quote(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}
