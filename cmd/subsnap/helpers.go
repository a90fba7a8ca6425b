package main

import "time"

const timeRounding = 100 * time.Millisecond

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// truncateText shortens a string to max runes. Byte slicing would split
// multi-byte characters in CJK paths and error messages.
func truncateText(value string, max int) string {
	if max <= 3 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}
