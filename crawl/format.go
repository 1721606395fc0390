package crawl

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash returns the xxhash of content as hex.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

// TruncateTitle shortens a title for display to at most maxLen runes,
// keeping the beginning.
func TruncateTitle(title string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(title)
	if len(runes) <= maxLen {
		return title
	}
	if maxLen < 2 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
