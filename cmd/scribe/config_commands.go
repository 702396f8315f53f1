package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set transcription.api_key (or export ASSEMBLYAI_API_KEY) before running a batch.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "show",
		Short:       "Show the effective configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if asJSON {
				return writeJSON(cmd, configView(cfg, resolved, exists))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "Config file does not exist; defaults are in effect")
			}
			rows := [][]string{
				{"staging_dir", cfg.Paths.StagingDir},
				{"library_dir", cfg.Paths.LibraryDir},
				{"log_dir", cfg.Paths.LogDir},
				{"video_list", cfg.VideoList.Path},
				{"audio_format", cfg.Fetch.AudioFormat},
				{"keep_audio", yesNo(cfg.Fetch.KeepAudio)},
				{"provider", cfg.Transcription.Provider},
				{"model", cfg.Transcription.Model},
				{"language", cfg.Transcription.Language},
				{"speaker_labels", yesNo(cfg.Transcription.SpeakerLabels)},
				{"api_key", maskSecret(cfg.Transcription.APIKey)},
				{"max_parallel", fmt.Sprintf("%d", cfg.Workflow.MaxParallel)},
				{"ntfy_topic", cfg.Notifications.NtfyTopic},
				{"log_format", cfg.Logging.Format},
				{"log_level", cfg.Logging.Level},
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Setting", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

type configViewPayload struct {
	Path          string `json:"path"`
	Exists        bool   `json:"exists"`
	StagingDir    string `json:"staging_dir"`
	LibraryDir    string `json:"library_dir"`
	LogDir        string `json:"log_dir"`
	VideoList     string `json:"video_list"`
	AudioFormat   string `json:"audio_format"`
	KeepAudio     bool   `json:"keep_audio"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	Language      string `json:"language"`
	SpeakerLabels bool   `json:"speaker_labels"`
	APIKeySet     bool   `json:"api_key_set"`
	MaxParallel   int    `json:"max_parallel"`
	NtfyTopic     string `json:"ntfy_topic"`
	LogFormat     string `json:"log_format"`
	LogLevel      string `json:"log_level"`
}

func configView(cfg *config.Config, path string, exists bool) configViewPayload {
	return configViewPayload{
		Path:          path,
		Exists:        exists,
		StagingDir:    cfg.Paths.StagingDir,
		LibraryDir:    cfg.Paths.LibraryDir,
		LogDir:        cfg.Paths.LogDir,
		VideoList:     cfg.VideoList.Path,
		AudioFormat:   cfg.Fetch.AudioFormat,
		KeepAudio:     cfg.Fetch.KeepAudio,
		Provider:      cfg.Transcription.Provider,
		Model:         cfg.Transcription.Model,
		Language:      cfg.Transcription.Language,
		SpeakerLabels: cfg.Transcription.SpeakerLabels,
		APIKeySet:     strings.TrimSpace(cfg.Transcription.APIKey) != "",
		MaxParallel:   cfg.Workflow.MaxParallel,
		NtfyTopic:     cfg.Notifications.NtfyTopic,
		LogFormat:     cfg.Logging.Format,
		LogLevel:      cfg.Logging.Level,
	}
}

func maskSecret(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(not set)"
	}
	return "********"
}
