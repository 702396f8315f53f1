package ytdlp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"scribe/internal/services"
	"scribe/internal/services/ytdlp"
)

func TestDownloadAudioInvokesRunner(t *testing.T) {
	dir := t.TempDir()
	client := ytdlp.NewClient("yt-dlp", "m4a")

	var gotName string
	var gotArgs []string
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		// Simulate yt-dlp writing the requested output.
		return os.WriteFile(filepath.Join(dir, "vid1.m4a"), []byte("audio"), 0o644)
	})

	path, err := client.DownloadAudio(context.Background(), "https://youtu.be/vid1", "vid1", dir)
	if err != nil {
		t.Fatalf("DownloadAudio: %v", err)
	}
	if path != filepath.Join(dir, "vid1.m4a") {
		t.Fatalf("path = %q", path)
	}
	if gotName != "yt-dlp" {
		t.Fatalf("binary = %q", gotName)
	}

	wantArgs := map[string]bool{"-x": false, "--audio-format": false, "--no-playlist": false}
	for _, arg := range gotArgs {
		if _, ok := wantArgs[arg]; ok {
			wantArgs[arg] = true
		}
	}
	for arg, seen := range wantArgs {
		if !seen {
			t.Errorf("missing argument %q in %v", arg, gotArgs)
		}
	}
	if gotArgs[len(gotArgs)-1] != "https://youtu.be/vid1" {
		t.Fatalf("url should be last argument, got %v", gotArgs)
	}
}

func TestDownloadAudioSkipsExistingFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "vid1.m4a")
	if err := os.WriteFile(existing, []byte("cached"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := ytdlp.NewClient("yt-dlp", "m4a")
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		t.Fatal("yt-dlp should not run when the audio file exists")
		return nil
	})

	path, err := client.DownloadAudio(context.Background(), "https://youtu.be/vid1", "vid1", dir)
	if err != nil {
		t.Fatalf("DownloadAudio: %v", err)
	}
	if path != existing {
		t.Fatalf("path = %q, want cached file", path)
	}
}

func TestDownloadAudioFindsAlternateExtension(t *testing.T) {
	dir := t.TempDir()
	client := ytdlp.NewClient("yt-dlp", "m4a")
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		// Extractor kept the native container instead of m4a.
		return os.WriteFile(filepath.Join(dir, "vid1.webm"), []byte("audio"), 0o644)
	})

	path, err := client.DownloadAudio(context.Background(), "https://youtu.be/vid1", "vid1", dir)
	if err != nil {
		t.Fatalf("DownloadAudio: %v", err)
	}
	if filepath.Base(path) != "vid1.webm" {
		t.Fatalf("path = %q", path)
	}
}

func TestDownloadAudioToolFailure(t *testing.T) {
	client := ytdlp.NewClient("yt-dlp", "m4a")
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1")
	})

	_, err := client.DownloadAudio(context.Background(), "https://youtu.be/vid1", "vid1", t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestDownloadAudioMissingOutput(t *testing.T) {
	client := ytdlp.NewClient("yt-dlp", "m4a")
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return nil // tool "succeeds" but writes nothing
	})

	_, err := client.DownloadAudio(context.Background(), "https://youtu.be/vid1", "vid1", t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestDownloadAudioValidatesInput(t *testing.T) {
	client := ytdlp.NewClient("", "")
	if _, err := client.DownloadAudio(context.Background(), "", "vid", t.TempDir()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := client.DownloadAudio(context.Background(), "https://youtu.be/x", "", t.TempDir()); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
