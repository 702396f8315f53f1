package conversation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"scribe/internal/transcript"
)

// Segment is one conversational turn attributed to a speaker.
type Segment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
}

// Conversation is the ordered reconstruction of speaker turns for one video.
type Conversation struct {
	VideoID  string    `json:"video_id"`
	Source   string    `json:"source"`
	Segments []Segment `json:"segments"`
}

// Build reconstructs ordered speaker turns from a transcript. Utterances are
// preferred when the provider returned them; otherwise contiguous same-speaker
// words are grouped into turns. Returns nil when the transcript carries no
// speaker information at all.
func Build(t *transcript.Transcript, source string) *Conversation {
	if t == nil {
		return nil
	}

	segments := segmentsFromUtterances(t.Utterances)
	if len(segments) == 0 {
		segments = segmentsFromWords(t.Words)
	}
	if len(segments) == 0 {
		return nil
	}

	for i := range segments {
		segments[i].Speaker = normalizeLabel(segments[i].Speaker)
		segments[i].Text = strings.TrimSpace(segments[i].Text)
	}

	return &Conversation{
		VideoID:  t.VideoID,
		Source:   source,
		Segments: segments,
	}
}

func segmentsFromUtterances(utterances []transcript.Utterance) []Segment {
	if len(utterances) == 0 {
		return nil
	}
	sorted := make([]transcript.Utterance, len(utterances))
	copy(sorted, utterances)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	segments := make([]Segment, 0, len(sorted))
	for _, u := range sorted {
		speaker := u.Speaker
		if speaker == "" {
			speaker = "UNKNOWN"
		}
		segments = append(segments, Segment{
			Speaker: speaker,
			Text:    u.Text,
			Start:   u.Start,
			End:     u.End,
		})
	}
	return segments
}

func segmentsFromWords(words []transcript.Word) []Segment {
	if len(words) == 0 {
		return nil
	}
	sorted := make([]transcript.Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var (
		segments   []Segment
		curSpeaker string
		curWords   []string
		curStart   int64
		curEnd     int64
		started    bool
	)
	flush := func() {
		if !started {
			return
		}
		segments = append(segments, Segment{
			Speaker: curSpeaker,
			Text:    strings.Join(curWords, " "),
			Start:   curStart,
			End:     curEnd,
		})
	}
	for _, w := range sorted {
		speaker := w.Speaker
		if speaker == "" {
			speaker = "UNKNOWN"
		}
		switch {
		case !started:
			started = true
			curSpeaker = speaker
			curWords = []string{w.Text}
			curStart = w.Start
			curEnd = w.End
		case speaker == curSpeaker:
			curWords = append(curWords, w.Text)
			curEnd = w.End
		default:
			flush()
			curSpeaker = speaker
			curWords = []string{w.Text}
			curStart = w.Start
			curEnd = w.End
		}
	}
	flush()

	// A single segment with no speaker attribution carries no conversational
	// structure worth writing.
	if len(segments) == 1 && segments[0].Speaker == "UNKNOWN" {
		return nil
	}
	return segments
}

// normalizeLabel shortens provider labels of the form "Speaker 0" to "A",
// "Speaker 1" to "B", and so on. Labels that are already short are kept.
func normalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "UNKNOWN"
	}
	if strings.HasPrefix(strings.ToLower(label), "speaker") {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, label)
		if n, err := strconv.Atoi(digits); err == nil && n >= 0 && n < 26 {
			return string(rune('A' + n))
		}
	}
	return label
}

// FilePathFor returns the conversation file location next to a transcript.
// transcripts/<id>.json maps to transcripts/<id>_conversation.json.
func FilePathFor(transcriptPath string) string {
	dir := filepath.Dir(transcriptPath)
	base := filepath.Base(transcriptPath)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+"_conversation"+ext)
}

// Save writes the conversation as indented JSON via temp-file rename.
func Save(path string, c *Conversation) error {
	if c == nil {
		return fmt.Errorf("conversation is nil")
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure conversation directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write conversation: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish conversation: %w", err)
	}
	return nil
}

// Load reads a conversation previously written with Save.
func Load(path string) (*Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read conversation: %w", err)
	}
	var c Conversation
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse conversation %q: %w", path, err)
	}
	return &c, nil
}
