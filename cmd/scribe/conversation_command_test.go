package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"scribe/internal/conversation"
	"scribe/internal/transcript"
)

func TestConversationCommandBuildsAndSkips(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	transcriptPath := filepath.Join(env.cfg.TranscriptsDir(), "vid1.json")
	diarized := &transcript.Transcript{
		VideoID: "vid1",
		Text:    "hello there general",
		Utterances: []transcript.Utterance{
			{Speaker: "A", Text: "hello there", Start: 0, End: 1200},
			{Speaker: "B", Text: "general", Start: 1300, End: 2000},
		},
	}
	if err := transcript.Save(transcriptPath, diarized); err != nil {
		t.Fatal(err)
	}

	item, err := env.store.NewVideo(ctx, "vid1", "https://youtu.be/vid1", "")
	if err != nil {
		t.Fatal(err)
	}
	item.TranscriptFile = transcriptPath
	item.SetCompleted(item.CreatedAt)
	if err := env.store.Update(ctx, item); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"conversation"}, env.configPath)
	if err != nil {
		t.Fatalf("conversation: %v", err)
	}
	requireContains(t, out, "1 built")

	conversationPath := conversation.FilePathFor(transcriptPath)
	if _, err := os.Stat(conversationPath); err != nil {
		t.Fatalf("conversation file missing: %v", err)
	}

	refreshed, err := env.store.GetByVideoID(ctx, "vid1")
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.ConversationFile != conversationPath {
		t.Fatalf("conversation file not recorded: %q", refreshed.ConversationFile)
	}

	out, _, err = runCLI(t, []string{"conversation"}, env.configPath)
	if err != nil {
		t.Fatalf("second conversation run: %v", err)
	}
	requireContains(t, out, "1 already present")
}

func TestConversationCommandReportsUndiarized(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	transcriptPath := filepath.Join(env.cfg.TranscriptsDir(), "vid2.json")
	plain := &transcript.Transcript{VideoID: "vid2", Text: "no speakers here"}
	if err := transcript.Save(transcriptPath, plain); err != nil {
		t.Fatal(err)
	}

	item, err := env.store.NewVideo(ctx, "vid2", "https://youtu.be/vid2", "")
	if err != nil {
		t.Fatal(err)
	}
	item.TranscriptFile = transcriptPath
	item.SetCompleted(item.CreatedAt)
	if err := env.store.Update(ctx, item); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"conversation", "vid2"}, env.configPath)
	if err != nil {
		t.Fatalf("conversation: %v", err)
	}
	requireContains(t, out, "no speaker labels")
	requireContains(t, out, "1 without diarization")
}
