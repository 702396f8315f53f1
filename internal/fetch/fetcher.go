package fetch

import (
	"context"
	"log/slog"
	"time"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/queue"
	"scribe/internal/services"
	"scribe/internal/services/ytdlp"
	"scribe/internal/stage"
)

// Fetcher downloads the audio track for an item into the staging area.
type Fetcher struct {
	cfg    *config.Config
	client *ytdlp.Client
	logger *slog.Logger
}

// New creates the fetch stage handler.
func New(cfg *config.Config, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		cfg:    cfg,
		client: ytdlp.NewClient(cfg.YtDlpBinary(), cfg.Fetch.AudioFormat),
		logger: logging.NewComponentLogger(logger, "fetch"),
	}
}

// Client exposes the underlying yt-dlp client for test injection.
func (f *Fetcher) Client() *ytdlp.Client {
	return f.client
}

// Prepare validates the item carries enough information to download.
func (f *Fetcher) Prepare(ctx context.Context, item *queue.Item) error {
	if item.URL == "" {
		return services.Wrap(services.ErrValidation, "fetch", "prepare", "item has no url", nil)
	}
	if item.VideoID == "" {
		return services.Wrap(services.ErrValidation, "fetch", "prepare", "item has no video id", nil)
	}
	return nil
}

// Execute downloads the audio and records its path on the item. An audio file
// already present in staging is reused.
func (f *Fetcher) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, f.logger)

	downloadCtx := ctx
	if f.cfg.Fetch.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		downloadCtx, cancel = context.WithTimeout(ctx, time.Duration(f.cfg.Fetch.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	started := time.Now()
	path, err := f.client.DownloadAudio(downloadCtx, item.URL, item.VideoID, f.cfg.AudioDir())
	if err != nil {
		return err
	}

	item.AudioFile = path
	logger.Info("audio ready",
		logging.String("path", path),
		logging.Duration("elapsed", time.Since(started)))
	return nil
}

// HealthCheck reports whether the yt-dlp binary is available.
func (f *Fetcher) HealthCheck(ctx context.Context) stage.Health {
	const name = "fetch"
	if err := lookPath(f.client.Binary()); err != nil {
		return stage.Unhealthy(name, f.client.Binary()+" not found in PATH")
	}
	return stage.Healthy(name)
}
