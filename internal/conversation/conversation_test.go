package conversation_test

import (
	"path/filepath"
	"testing"

	"scribe/internal/conversation"
	"scribe/internal/transcript"
)

func TestBuildFromUtterances(t *testing.T) {
	tr := &transcript.Transcript{
		VideoID: "vid1",
		Utterances: []transcript.Utterance{
			{Speaker: "Speaker 1", Text: "second turn", Start: 5000, End: 8000},
			{Speaker: "Speaker 0", Text: "first turn", Start: 0, End: 4000},
		},
	}

	conv := conversation.Build(tr, "transcripts/vid1.json")
	if conv == nil {
		t.Fatal("expected conversation")
	}
	if len(conv.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(conv.Segments))
	}
	if conv.Segments[0].Speaker != "A" || conv.Segments[0].Text != "first turn" {
		t.Fatalf("first segment = %+v", conv.Segments[0])
	}
	if conv.Segments[1].Speaker != "B" {
		t.Fatalf("second speaker = %q, want B", conv.Segments[1].Speaker)
	}
}

func TestBuildFallsBackToWords(t *testing.T) {
	tr := &transcript.Transcript{
		VideoID: "vid2",
		Words: []transcript.Word{
			{Text: "hello", Speaker: "A", Start: 0, End: 400},
			{Text: "there", Speaker: "A", Start: 400, End: 800},
			{Text: "hi", Speaker: "B", Start: 900, End: 1100},
			{Text: "back", Speaker: "A", Start: 1200, End: 1500},
		},
	}

	conv := conversation.Build(tr, "transcripts/vid2.json")
	if conv == nil {
		t.Fatal("expected conversation")
	}
	want := []struct {
		speaker string
		text    string
	}{
		{"A", "hello there"},
		{"B", "hi"},
		{"A", "back"},
	}
	if len(conv.Segments) != len(want) {
		t.Fatalf("segments = %d, want %d", len(conv.Segments), len(want))
	}
	for i, w := range want {
		if conv.Segments[i].Speaker != w.speaker || conv.Segments[i].Text != w.text {
			t.Errorf("segment %d = %+v, want %+v", i, conv.Segments[i], w)
		}
	}
	if conv.Segments[0].Start != 0 || conv.Segments[0].End != 800 {
		t.Fatalf("first segment timing = [%d, %d]", conv.Segments[0].Start, conv.Segments[0].End)
	}
}

func TestBuildWithoutDiarizationReturnsNil(t *testing.T) {
	tr := &transcript.Transcript{
		VideoID: "vid3",
		Text:    "monologue",
		Words: []transcript.Word{
			{Text: "monologue", Start: 0, End: 500},
		},
	}
	if conv := conversation.Build(tr, "src"); conv != nil {
		t.Fatalf("expected nil conversation, got %+v", conv)
	}
	if conv := conversation.Build(nil, "src"); conv != nil {
		t.Fatal("nil transcript should produce nil conversation")
	}
}

func TestNormalizeKeepsShortLabels(t *testing.T) {
	tr := &transcript.Transcript{
		VideoID: "vid4",
		Utterances: []transcript.Utterance{
			{Speaker: "A", Text: "kept", Start: 0, End: 100},
			{Speaker: "narrator", Text: "also kept", Start: 200, End: 300},
		},
	}
	conv := conversation.Build(tr, "src")
	if conv.Segments[0].Speaker != "A" {
		t.Fatalf("speaker = %q", conv.Segments[0].Speaker)
	}
	if conv.Segments[1].Speaker != "narrator" {
		t.Fatalf("speaker = %q", conv.Segments[1].Speaker)
	}
}

func TestFilePathFor(t *testing.T) {
	got := conversation.FilePathFor(filepath.Join("library", "transcripts", "abc.json"))
	want := filepath.Join("library", "transcripts", "abc_conversation.json")
	if got != want {
		t.Fatalf("FilePathFor = %q, want %q", got, want)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vid1_conversation.json")
	in := &conversation.Conversation{
		VideoID: "vid1",
		Source:  "transcripts/vid1.json",
		Segments: []conversation.Segment{
			{Speaker: "A", Text: "hello", Start: 0, End: 900},
		},
	}
	if err := conversation.Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := conversation.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.VideoID != "vid1" || len(out.Segments) != 1 || out.Segments[0].Speaker != "A" {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
