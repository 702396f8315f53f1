package workflow

import (
	"sync"
	"time"
)

// FailedItem records one per-item failure for the batch summary.
type FailedItem struct {
	VideoID string
	Error   string
}

// Summary aggregates the outcome of a batch run.
type Summary struct {
	mu        sync.Mutex
	Total     int
	Completed int
	Failed    int
	Skipped   int
	Failures  []FailedItem
	Duration  time.Duration
}

func (s *Summary) recordCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Completed++
}

func (s *Summary) recordFailed(videoID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Failed++
	message := ""
	if err != nil {
		message = err.Error()
	}
	s.Failures = append(s.Failures, FailedItem{VideoID: videoID, Error: message})
}

func (s *Summary) recordSkipped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Skipped++
}
