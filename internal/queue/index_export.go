package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// IndexEntry is the JSON representation of one item in the exported snapshot.
type IndexEntry struct {
	VideoID          string `json:"video_id"`
	URL              string `json:"url"`
	Title            string `json:"title,omitempty"`
	Status           string `json:"status"`
	Provider         string `json:"provider,omitempty"`
	TranscriptFile   string `json:"transcript_file,omitempty"`
	ConversationFile string `json:"conversation_file,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
	CompletedAt      string `json:"completed_at,omitempty"`
}

// IndexSnapshot is the on-disk index.json document.
type IndexSnapshot struct {
	GeneratedAt string       `json:"generated_at"`
	Items       []IndexEntry `json:"items"`
}

// ExportJSON writes an index.json snapshot of every item to path. The file is
// written via temp-file rename so readers never observe a partial document.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	items, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("list items for export: %w", err)
	}

	snapshot := IndexSnapshot{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Items:       make([]IndexEntry, 0, len(items)),
	}
	for _, item := range items {
		entry := IndexEntry{
			VideoID:          item.VideoID,
			URL:              item.URL,
			Title:            item.Title,
			Status:           string(item.Status),
			Provider:         item.Provider,
			TranscriptFile:   item.TranscriptFile,
			ConversationFile: item.ConversationFile,
			ErrorMessage:     item.ErrorMessage,
			CreatedAt:        item.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:        item.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if item.CompletedAt != nil {
			entry.CompletedAt = item.CompletedAt.UTC().Format(time.RFC3339)
		}
		snapshot.Items = append(snapshot.Items, entry)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure export directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write index snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish index snapshot: %w", err)
	}
	return nil
}
