package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"scribe/internal/services"
)

// Client wraps the yt-dlp binary for audio-only downloads.
type Client struct {
	binary        string
	audioFormat   string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewClient creates a yt-dlp client. audioFormat is the extraction target
// container (m4a, mp3, wav, opus, flac).
func NewClient(binary, audioFormat string) *Client {
	if binary == "" {
		binary = "yt-dlp"
	}
	if audioFormat == "" {
		audioFormat = "m4a"
	}
	return &Client{binary: binary, audioFormat: audioFormat}
}

// WithCommandRunner sets a custom command runner (for testing).
func (c *Client) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	c.commandRunner = runner
}

// Binary returns the configured executable name for diagnostics.
func (c *Client) Binary() string {
	return c.binary
}

// AudioPath returns the deterministic output location for a video's audio.
func (c *Client) AudioPath(audioDir, videoID string) string {
	return filepath.Join(audioDir, videoID+"."+c.audioFormat)
}

// DownloadAudio extracts the audio track of url into audioDir as
// <videoID>.<format> and returns the produced file path. An existing file at
// the target path is reused without invoking yt-dlp.
func (c *Client) DownloadAudio(ctx context.Context, url, videoID, audioDir string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", services.Wrap(services.ErrValidation, "fetch", "download", "url required", nil)
	}
	if strings.TrimSpace(videoID) == "" {
		return "", services.Wrap(services.ErrValidation, "fetch", "download", "video id required", nil)
	}
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "fetch", "download", "ensure audio directory", err)
	}

	target := c.AudioPath(audioDir, videoID)
	if info, err := os.Stat(target); err == nil && !info.IsDir() && info.Size() > 0 {
		return target, nil
	}

	outputTemplate := filepath.Join(audioDir, videoID+".%(ext)s")
	args := []string{
		"-x",
		"--audio-format", c.audioFormat,
		"--no-playlist",
		"-o", outputTemplate,
		url,
	}

	if err := c.run(ctx, c.binary, args...); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", services.Wrap(services.ErrTimeout, "fetch", "download", fmt.Sprintf("yt-dlp timed out for %s", videoID), err)
		}
		return "", services.Wrap(services.ErrExternalTool, "fetch", "download", fmt.Sprintf("yt-dlp failed for %s", videoID), err)
	}

	produced, err := c.findProduced(audioDir, videoID)
	if err != nil {
		return "", err
	}
	return produced, nil
}

// findProduced locates the downloaded file. yt-dlp normally honors the
// requested format, but some extractors keep the native container.
func (c *Client) findProduced(audioDir, videoID string) (string, error) {
	target := c.AudioPath(audioDir, videoID)
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return target, nil
	}

	entries, err := os.ReadDir(audioDir)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "fetch", "download", "read audio directory", err)
	}
	prefix := videoID + "."
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && !strings.HasSuffix(name, ".part") && !strings.HasSuffix(name, ".tmp") {
			return filepath.Join(audioDir, name), nil
		}
	}
	return "", services.Wrap(services.ErrExternalTool, "fetch", "download", fmt.Sprintf("downloaded file not found for %s", videoID), fs.ErrNotExist)
}

func (c *Client) run(ctx context.Context, name string, args ...string) error {
	if c.commandRunner != nil {
		return c.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
