package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of an index item.
type Status string

const (
	StatusPending      Status = "pending"
	StatusFetching     Status = "fetching"
	StatusFetched      Status = "fetched"
	StatusTranscribing Status = "transcribing"
	StatusTranscribed  Status = "transcribed"
	StatusExporting    Status = "exporting"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusFetching,
	StatusFetched,
	StatusTranscribing,
	StatusTranscribed,
	StatusExporting,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusFetching:     {},
	StatusTranscribing: {},
	StatusExporting:    {},
}

type statusTransition struct {
	from Status
	to   Status
}

// Interrupted stages roll back to the last durable state so a re-run repeats
// only the work that was in flight.
var stageRollbackTransitions = []statusTransition{
	{from: StatusFetching, to: StatusPending},
	{from: StatusTranscribing, to: StatusFetched},
	{from: StatusExporting, to: StatusTranscribed},
}

// HealthSummary describes aggregated index counts per key lifecycle states.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Failed     int
	Completed  int
}

// Item represents one video tracked in the SQLite index.
type Item struct {
	ID               int64
	VideoID          string
	URL              string
	Title            string
	Status           Status
	Provider         string
	AudioFile        string
	TranscriptFile   string
	ConversationFile string
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
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

// IsProcessing returns true when the status reflects an in-flight operation.
func (i Item) IsProcessing() bool {
	return IsProcessingStatus(i.Status)
}

// IsProcessingStatus reports whether a status reflects an in-flight operation.
func IsProcessingStatus(status Status) bool {
	_, ok := processingStatuses[status]
	return ok
}

// IsTerminal reports whether a status will not change without intervention.
func IsTerminal(status Status) bool {
	return status == StatusCompleted || status == StatusFailed
}

// SetFailed marks the item as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
	i.CompletedAt = nil
}

// SetCompleted marks the item as completed and stamps the completion time.
func (i *Item) SetCompleted(now time.Time) {
	i.Status = StatusCompleted
	i.ErrorMessage = ""
	ts := now.UTC()
	i.CompletedAt = &ts
}
