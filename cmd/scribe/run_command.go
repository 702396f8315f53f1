package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"scribe/internal/export"
	"scribe/internal/fetch"
	"scribe/internal/logging"
	"scribe/internal/notifications"
	"scribe/internal/queue"
	"scribe/internal/transcribe"
	"scribe/internal/videolist"
	"scribe/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [list-file]",
		Short: "Transcribe every video in the list",
		Long: "Downloads the audio for each listed video, submits it to the configured\n" +
			"transcription provider, and writes transcripts into the library. Completed\n" +
			"videos are skipped, so re-running after a partial batch only does the\n" +
			"remaining work.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			listPath := cfg.VideoList.Path
			if len(args) == 1 {
				listPath = strings.TrimSpace(args[0])
			}
			if listPath == "" {
				return errors.New("no video list: pass a list file or set video_list.path in the config")
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			refs, err := videolist.Load(listPath, logger)
			if err != nil {
				return err
			}

			provider, err := transcribe.NewProvider(cfg)
			if err != nil {
				return err
			}

			lock := flock.New(filepath.Join(cfg.Paths.StagingDir, "scribe.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return errors.New("another scribe run is already in progress")
			}
			defer lock.Unlock()

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runner := workflow.New(cfg, store, notifications.NewService(cfg),
				fetch.New(cfg, logger),
				transcribe.New(cfg, provider, logger),
				export.New(cfg, logger),
				logger)

			summary, err := runner.Run(runCtx, refs)
			if summary != nil {
				printSummary(cmd, summary)
			}
			return err
		},
	}
	return cmd
}

func printSummary(cmd *cobra.Command, summary *workflow.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Batch finished in %s: %d completed, %d failed, %d skipped\n",
		summary.Duration.Round(time.Second), summary.Completed, summary.Failed, summary.Skipped)

	if len(summary.Failures) == 0 {
		return
	}
	rows := make([][]string, 0, len(summary.Failures))
	for _, failure := range summary.Failures {
		rows = append(rows, []string{failure.VideoID, failure.Error})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Video", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft},
	))
	fmt.Fprintln(out, "Failed items stay in the index; the next run retries them.")
}
