package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Word is a single recognized word with millisecond timing.
type Word struct {
	Text       string  `json:"text"`
	Speaker    string  `json:"speaker,omitempty"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Utterance is a contiguous span of speech attributed to one speaker.
type Utterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
}

// Transcript is the provider-independent transcription result persisted to the
// library. Timing fields are milliseconds from the start of the audio.
type Transcript struct {
	VideoID         string      `json:"video_id"`
	Provider        string      `json:"provider"`
	Language        string      `json:"language,omitempty"`
	DurationSeconds float64     `json:"duration_seconds,omitempty"`
	Text            string      `json:"text"`
	Utterances      []Utterance `json:"utterances,omitempty"`
	Words           []Word      `json:"words,omitempty"`
}

// HasDiarization reports whether the provider returned speaker attribution in
// any form.
func (t *Transcript) HasDiarization() bool {
	if t == nil {
		return false
	}
	if len(t.Utterances) > 0 {
		return true
	}
	for _, w := range t.Words {
		if w.Speaker != "" {
			return true
		}
	}
	return false
}

// Save writes the transcript as indented JSON via temp-file rename so readers
// never observe a partial document.
func Save(path string, t *Transcript) error {
	if t == nil {
		return fmt.Errorf("transcript is nil")
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure transcript directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish transcript: %w", err)
	}
	return nil
}

// Load reads a transcript previously written with Save.
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse transcript %q: %w", path, err)
	}
	return &t, nil
}
