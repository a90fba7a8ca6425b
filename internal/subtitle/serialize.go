package subtitle

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedFormat indicates a serialization layout this package does
// not recognize.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Format selects one of the supported subtitle file layouts.
type Format string

const (
	// FormatLRC is the lyric-timestamp layout: per cue a content line
	// prefixed with the start timestamp and a bare end-timestamp line.
	FormatLRC Format = "lrc"
	// FormatTXT is the two-line layout: start --> end, then the content,
	// then a blank line.
	FormatTXT Format = "txt"
)

// ParseFormat validates a format name from config or flags.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatLRC:
		return FormatLRC, nil
	case FormatTXT:
		return FormatTXT, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: lrc, txt)", ErrUnsupportedFormat, value)
	}
}

// Extension returns the output file extension for the format.
func (f Format) Extension() string {
	return string(f)
}

// FormatTimestamp renders a duration as MM:SS.CC with both fields
// zero-padded and the centiseconds truncated, not rounded. Minutes are
// total minutes and may exceed 59.
func FormatTimestamp(d time.Duration) string {
	total := d.Seconds()
	minutes := int(total) / 60
	seconds := int(total) % 60
	centis := int((total - float64(int(total))) * 100)
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}

// Render serializes the cue sequence into the requested layout. Pure: no
// state, no side effects beyond the returned text.
func Render(cues []Cue, format Format) (string, error) {
	switch format {
	case FormatLRC:
		return renderLRC(cues), nil
	case FormatTXT:
		return renderTXT(cues), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func renderLRC(cues []Cue) string {
	entries := make([]string, 0, len(cues))
	for _, cue := range cues {
		entries = append(entries, fmt.Sprintf("[%s]%s\n[%s]",
			FormatTimestamp(cue.Start), cue.Content, FormatTimestamp(cue.End)))
	}
	return strings.Join(entries, "\n")
}

func renderTXT(cues []Cue) string {
	entries := make([]string, 0, len(cues))
	for _, cue := range cues {
		entries = append(entries, fmt.Sprintf("%s --> %s\n%s\n\n",
			FormatTimestamp(cue.Start), FormatTimestamp(cue.End), cue.Content))
	}
	return strings.Join(entries, "\n")
}
