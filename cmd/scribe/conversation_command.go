package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scribe/internal/config"
	"scribe/internal/conversation"
	"scribe/internal/queue"
	"scribe/internal/transcript"
)

func newConversationCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "conversation [videoID...]",
		Short: "Rebuild conversation files from library transcripts",
		Long: "Walks completed index items and reconstructs the speaker conversation\n" +
			"from each transcript's diarization. Existing conversation files are left\n" +
			"alone unless --force is given. Transcripts without speaker labels are\n" +
			"reported and skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				items, err := selectConversationItems(cmd, store, args)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				var built, skipped, missing int
				for _, item := range items {
					if item.TranscriptFile == "" {
						continue
					}

					target := conversation.FilePathFor(item.TranscriptFile)
					if !force {
						if _, err := os.Stat(target); err == nil {
							skipped++
							continue
						}
					}

					t, err := transcript.Load(item.TranscriptFile)
					if err != nil {
						fmt.Fprintf(out, "%s: unreadable transcript: %v\n", item.VideoID, err)
						continue
					}

					conv := conversation.Build(t, item.TranscriptFile)
					if conv == nil {
						missing++
						fmt.Fprintf(out, "%s: no speaker labels, skipping\n", item.VideoID)
						continue
					}

					if err := conversation.Save(target, conv); err != nil {
						return fmt.Errorf("write conversation for %s: %w", item.VideoID, err)
					}
					if item.ConversationFile != target {
						item.ConversationFile = target
						if err := store.Update(cmd.Context(), item); err != nil {
							return fmt.Errorf("record conversation for %s: %w", item.VideoID, err)
						}
					}
					built++
					fmt.Fprintf(out, "%s: wrote %s\n", item.VideoID, target)
				}

				fmt.Fprintf(out, "Conversations: %d built, %d already present, %d without diarization\n",
					built, skipped, missing)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Rebuild even when a conversation file exists")
	return cmd
}

func selectConversationItems(cmd *cobra.Command, store *queue.Store, videoIDs []string) ([]*queue.Item, error) {
	if len(videoIDs) == 0 {
		return store.List(cmd.Context(), queue.StatusCompleted)
	}

	items := make([]*queue.Item, 0, len(videoIDs))
	for _, videoID := range videoIDs {
		item, err := store.GetByVideoID(cmd.Context(), videoID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("video %q is not in the index", videoID)
		}
		items = append(items, item)
	}
	return items, nil
}
