package transcribe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/queue"
	"scribe/internal/services"
	"scribe/internal/stage"
	"scribe/internal/transcript"
)

// Transcriber submits staged audio to the configured provider and persists the
// raw transcript to the staging area.
type Transcriber struct {
	cfg      *config.Config
	provider Provider
	logger   *slog.Logger
}

// New creates the transcribe stage handler.
func New(cfg *config.Config, provider Provider, logger *slog.Logger) *Transcriber {
	return &Transcriber{
		cfg:      cfg,
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "transcribe"),
	}
}

// Prepare checks the staged audio file is present.
func (t *Transcriber) Prepare(ctx context.Context, item *queue.Item) error {
	if item.AudioFile == "" {
		return services.Wrap(services.ErrValidation, "transcribe", "prepare", "item has no audio file", nil)
	}
	if info, err := os.Stat(item.AudioFile); err != nil || info.IsDir() {
		return services.Wrap(services.ErrNotFound, "transcribe", "prepare", fmt.Sprintf("audio file %q missing", item.AudioFile), err)
	}
	return nil
}

// Execute transcribes the item's audio, retrying transient failures, and
// records the staged transcript path and provider on the item.
func (t *Transcriber) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, t.logger)

	req := Request{
		SpeakerLabels: t.cfg.Transcription.SpeakerLabels,
		Language:      t.cfg.Transcription.Language,
	}

	var (
		result *transcript.Transcript
		err    error
	)
	attempts := t.cfg.Transcription.MaxRetries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err = t.transcribeOnce(ctx, item.AudioFile, req)
		if err == nil {
			break
		}
		if attempt == attempts || !services.IsRetryable(err) || ctx.Err() != nil {
			return err
		}
		backoff := time.Duration(attempt) * time.Duration(t.cfg.Transcription.PollIntervalSeconds) * time.Second
		logger.Warn("transcription attempt failed, retrying",
			logging.Int("attempt", attempt),
			logging.Duration("backoff", backoff),
			logging.Error(err))
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return services.Wrap(services.ErrTimeout, "transcribe", "retry", "", ctx.Err())
		}
	}

	result.VideoID = item.VideoID
	stagedPath := filepath.Join(t.cfg.StagingTranscriptsDir(), item.VideoID+".json")
	if err := transcript.Save(stagedPath, result); err != nil {
		return services.Wrap(services.ErrTransient, "transcribe", "persist", "stage transcript", err)
	}

	item.TranscriptFile = stagedPath
	item.Provider = t.provider.Name()
	logger.Info("transcript ready",
		logging.String("path", stagedPath),
		logging.String("provider", t.provider.Name()),
		logging.Float64("duration_seconds", result.DurationSeconds),
		logging.Bool("diarized", result.HasDiarization()))
	return nil
}

func (t *Transcriber) transcribeOnce(ctx context.Context, audioPath string, req Request) (*transcript.Transcript, error) {
	jobCtx := ctx
	if t.cfg.Transcription.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, time.Duration(t.cfg.Transcription.TimeoutSeconds)*time.Second)
		defer cancel()
	}
	return t.provider.Transcribe(jobCtx, audioPath, req)
}

// HealthCheck reports whether a provider is configured.
func (t *Transcriber) HealthCheck(ctx context.Context) stage.Health {
	const name = "transcribe"
	if t.provider == nil {
		return stage.Unhealthy(name, "no transcription provider configured")
	}
	return stage.Healthy(name)
}
