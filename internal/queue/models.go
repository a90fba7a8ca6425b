package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending     Status = "pending"
	StatusExtracting  Status = "extracting"
	StatusCompleted   Status = "completed"
	StatusNoSubtitles Status = "no_subtitles"
	StatusFailed      Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusExtracting,
	StatusCompleted,
	StatusNoSubtitles,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Item represents one video tracked by a batch run, persisted in SQLite.
type Item struct {
	ID           int64
	RunID        string
	SourcePath   string
	Status       Status
	OutputPath   string
	CueCount     int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary aggregates per-status counts for a run or the whole queue.
type Summary struct {
	Total       int
	Pending     int
	Extracting  int
	Completed   int
	NoSubtitles int
	Failed      int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether an item in this status will receive no further
// updates from the run that created it.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusNoSubtitles, StatusFailed:
		return true
	default:
		return false
	}
}
