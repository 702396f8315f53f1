package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"scribe/internal/config"
	"scribe/internal/logging"
	"scribe/internal/notifications"
	"scribe/internal/queue"
	"scribe/internal/services"
	"scribe/internal/stage"
	"scribe/internal/videolist"
)

// Runner drives every item of a video list through the stage chain
// fetch -> transcribe -> export, isolating per-item failures.
type Runner struct {
	cfg      *config.Config
	store    *queue.Store
	notifier notifications.Service
	logger   *slog.Logger

	fetcher     stage.Handler
	transcriber stage.Handler
	exporter    stage.Handler
}

// New creates a batch runner wired to the given stage handlers.
func New(
	cfg *config.Config,
	store *queue.Store,
	notifier notifications.Service,
	fetcher, transcriber, exporter stage.Handler,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		cfg:         cfg,
		store:       store,
		notifier:    notifier,
		logger:      logging.NewComponentLogger(logger, "workflow"),
		fetcher:     fetcher,
		transcriber: transcriber,
		exporter:    exporter,
	}
}

// Run processes the given video refs and returns the batch summary. Per-item
// failures are recorded and do not stop the batch; only configuration-level
// problems return an error.
func (r *Runner) Run(ctx context.Context, refs []videolist.VideoRef) (*Summary, error) {
	started := time.Now()
	summary := &Summary{Total: len(refs)}

	if err := r.checkStages(ctx); err != nil {
		return nil, err
	}

	reclaimed, err := r.store.ResetStuckProcessing(ctx)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "startup", "reset interrupted items", err)
	}
	if reclaimed > 0 {
		r.logger.Info("reclaimed interrupted items", logging.Int64("count", reclaimed))
	}

	work, err := r.seed(ctx, refs, summary)
	if err != nil {
		return nil, err
	}

	if err := r.notifier.NotifyBatchStarted(ctx, len(work)); err != nil {
		r.logger.Warn("batch start notification failed", logging.Error(err))
	}

	group, groupCtx := errgroup.WithContext(ctx)
	limit := r.cfg.Workflow.MaxParallel
	if limit < 1 {
		limit = 1
	}
	group.SetLimit(limit)

	for _, item := range work {
		item := item
		group.Go(func() error {
			if groupCtx.Err() != nil {
				summary.recordSkipped()
				return nil
			}
			return r.processItem(groupCtx, item, summary)
		})
	}
	fatal := group.Wait()

	summary.Duration = time.Since(started)

	if err := r.store.ExportJSON(ctx, r.cfg.IndexJSONPath()); err != nil {
		r.logger.Error("index snapshot export failed", logging.Error(err))
	}
	if err := r.notifier.NotifyBatchCompleted(ctx, summary.Completed, summary.Failed, summary.Skipped, summary.Duration); err != nil {
		r.logger.Warn("batch completion notification failed", logging.Error(err))
	}

	attrs := []logging.Attr{
		logging.Int("completed", summary.Completed),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", summary.Duration),
	}
	if len(summary.Failures) > 0 {
		ids := make([]string, 0, len(summary.Failures))
		for _, failure := range summary.Failures {
			ids = append(ids, failure.VideoID)
		}
		attrs = append(attrs, logging.Any("failed_videos", ids))
	}
	r.logger.Info("batch finished", logging.Args(attrs...)...)
	return summary, fatal
}

func (r *Runner) checkStages(ctx context.Context) error {
	handlers := []stage.Handler{r.fetcher, r.transcriber, r.exporter}
	for _, handler := range handlers {
		health := handler.HealthCheck(ctx)
		if !health.Ready {
			return services.Wrap(services.ErrConfiguration, health.Name, "health", health.Detail, nil)
		}
	}
	return nil
}

// seed reconciles the list against the index. New refs get pending rows,
// completed items are skipped, and previously failed items get another chance.
func (r *Runner) seed(ctx context.Context, refs []videolist.VideoRef, summary *Summary) ([]*queue.Item, error) {
	work := make([]*queue.Item, 0, len(refs))
	for _, ref := range refs {
		item, err := r.store.GetByVideoID(ctx, ref.VideoID)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "workflow", "seed", "read index", err)
		}
		if item == nil {
			item, err = r.store.NewVideo(ctx, ref.VideoID, ref.URL, ref.Title)
			if err != nil {
				return nil, services.Wrap(services.ErrConfiguration, "workflow", "seed", "create index item", err)
			}
			work = append(work, item)
			continue
		}

		switch item.Status {
		case queue.StatusCompleted:
			r.logger.Info("already transcribed, skipping", logging.String("video_id", item.VideoID))
			summary.recordSkipped()
		case queue.StatusFailed:
			item.Status = queue.StatusPending
			item.ErrorMessage = ""
			if err := r.store.Update(ctx, item); err != nil {
				return nil, services.Wrap(services.ErrConfiguration, "workflow", "seed", "reset failed item", err)
			}
			work = append(work, item)
		default:
			work = append(work, item)
		}
	}
	return work, nil
}

// processItem returns a non-nil error only for fatal failures that should
// abort the rest of the batch.
func (r *Runner) processItem(ctx context.Context, item *queue.Item, summary *Summary) error {
	itemCtx := services.WithItemID(ctx, item.ID)
	itemCtx = services.WithVideoID(itemCtx, item.VideoID)
	itemCtx = services.WithRequestID(itemCtx, uuid.NewString())
	logger := logging.WithContext(itemCtx, r.logger)

	for !queue.IsTerminal(item.Status) {
		if err := ctx.Err(); err != nil {
			r.failItem(itemCtx, item, summary, services.Wrap(services.ErrTimeout, "workflow", "process", "batch interrupted", err))
			return nil
		}

		var err error
		switch item.Status {
		case queue.StatusPending:
			err = r.runStage(itemCtx, item, "fetch", r.fetcher, queue.StatusFetching, queue.StatusFetched)
		case queue.StatusFetched:
			err = r.runStage(itemCtx, item, "transcribe", r.transcriber, queue.StatusTranscribing, queue.StatusTranscribed)
		case queue.StatusTranscribed:
			err = r.runStage(itemCtx, item, "export", r.exporter, queue.StatusExporting, queue.StatusCompleted)
		default:
			err = services.Wrap(services.ErrValidation, "workflow", "process",
				fmt.Sprintf("item in unexpected status %q", item.Status), nil)
		}
		if err != nil {
			r.failItem(itemCtx, item, summary, err)
			if services.IsFatal(err) {
				return err
			}
			return nil
		}
	}

	summary.recordCompleted()
	logger.Info("item completed", logging.String("transcript", item.TranscriptFile))
	return nil
}

func (r *Runner) runStage(ctx context.Context, item *queue.Item, name string, handler stage.Handler, processing, next queue.Status) error {
	stageCtx := services.WithStage(ctx, name)
	logger := logging.WithContext(stageCtx, r.logger)

	item.Status = processing
	if err := r.store.Update(stageCtx, item); err != nil {
		return services.Wrap(services.ErrTransient, name, "update", "persist processing status", err)
	}
	logger.Info("stage started")

	if err := handler.Prepare(stageCtx, item); err != nil {
		return err
	}
	if err := handler.Execute(stageCtx, item); err != nil {
		return err
	}

	if next == queue.StatusCompleted {
		item.SetCompleted(time.Now())
	} else {
		item.Status = next
	}
	if err := r.store.Update(stageCtx, item); err != nil {
		return services.Wrap(services.ErrTransient, name, "update", "persist stage result", err)
	}
	logger.Info("stage finished")
	return nil
}

func (r *Runner) failItem(ctx context.Context, item *queue.Item, summary *Summary, cause error) {
	logger := logging.WithContext(ctx, r.logger)
	logger.Error("item failed", logging.Error(cause))

	item.SetFailed(cause.Error())
	if err := r.store.Update(ctx, item); err != nil {
		logger.Error("failed status not persisted", logging.Error(err))
	}
	summary.recordFailed(item.VideoID, cause)

	if err := r.notifier.NotifyItemFailed(ctx, item.VideoID, cause); err != nil {
		logger.Warn("item failure notification failed", logging.Error(err))
	}
}
