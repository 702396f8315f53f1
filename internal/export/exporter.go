package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"scribe/internal/config"
	"scribe/internal/conversation"
	"scribe/internal/logging"
	"scribe/internal/queue"
	"scribe/internal/services"
	"scribe/internal/stage"
	"scribe/internal/transcript"
)

// Exporter moves staged transcripts into the library, reconstructs the
// conversation when diarization is available, and cleans up staged audio.
type Exporter struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates the export stage handler.
func New(cfg *config.Config, logger *slog.Logger) *Exporter {
	return &Exporter{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "export"),
	}
}

// Prepare checks the staged transcript is present.
func (e *Exporter) Prepare(ctx context.Context, item *queue.Item) error {
	if item.TranscriptFile == "" {
		return services.Wrap(services.ErrValidation, "export", "prepare", "item has no transcript file", nil)
	}
	if info, err := os.Stat(item.TranscriptFile); err != nil || info.IsDir() {
		return services.Wrap(services.ErrNotFound, "export", "prepare", fmt.Sprintf("transcript %q missing", item.TranscriptFile), err)
	}
	return nil
}

// Execute publishes the transcript into the library and records final paths on
// the item. Staged intermediates are removed only after the library copy is
// durable, so a failure here leaves everything needed for a retry.
func (e *Exporter) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, e.logger)

	t, err := transcript.Load(item.TranscriptFile)
	if err != nil {
		return services.Wrap(services.ErrValidation, "export", "load", "staged transcript", err)
	}

	libraryPath := filepath.Join(e.cfg.TranscriptsDir(), item.VideoID+".json")
	if err := transcript.Save(libraryPath, t); err != nil {
		return services.Wrap(services.ErrTransient, "export", "publish", "library transcript", err)
	}

	var conversationPath string
	if conv := conversation.Build(t, libraryPath); conv != nil {
		conversationPath = conversation.FilePathFor(libraryPath)
		if err := conversation.Save(conversationPath, conv); err != nil {
			return services.Wrap(services.ErrTransient, "export", "publish", "conversation", err)
		}
	}

	stagedTranscript := item.TranscriptFile
	item.TranscriptFile = libraryPath
	item.ConversationFile = conversationPath

	if stagedTranscript != libraryPath {
		if err := os.Remove(stagedTranscript); err != nil && !os.IsNotExist(err) {
			logger.Warn("staged transcript not removed",
				logging.String("path", stagedTranscript),
				logging.Error(err))
		}
	}
	e.cleanupAudio(item, logger)

	logger.Info("transcript exported",
		logging.String("transcript", libraryPath),
		logging.Bool("conversation", conversationPath != ""))
	return nil
}

func (e *Exporter) cleanupAudio(item *queue.Item, logger *slog.Logger) {
	if e.cfg.Fetch.KeepAudio || item.AudioFile == "" {
		return
	}
	if err := os.Remove(item.AudioFile); err != nil && !os.IsNotExist(err) {
		logger.Warn("staged audio not removed",
			logging.String("path", item.AudioFile),
			logging.Error(err))
		return
	}
	item.AudioFile = ""
}

// HealthCheck reports whether the library directory is writable.
func (e *Exporter) HealthCheck(ctx context.Context) stage.Health {
	const name = "export"
	if err := os.MkdirAll(e.cfg.TranscriptsDir(), 0o755); err != nil {
		return stage.Unhealthy(name, "library not writable: "+err.Error())
	}
	return stage.Healthy(name)
}
