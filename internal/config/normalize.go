package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeVideoList(); err != nil {
		return err
	}
	c.normalizeFetch()
	c.normalizeTranscription()
	c.normalizeWorkflow()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVideoList() error {
	c.VideoList.Path = strings.TrimSpace(c.VideoList.Path)
	if c.VideoList.Path == "" {
		c.VideoList.Path = defaultVideoListPath
	}
	var err error
	if c.VideoList.Path, err = expandPath(c.VideoList.Path); err != nil {
		return fmt.Errorf("video_list.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeFetch() {
	c.Fetch.AudioFormat = strings.ToLower(strings.TrimSpace(c.Fetch.AudioFormat))
	if c.Fetch.AudioFormat == "" {
		c.Fetch.AudioFormat = defaultAudioFormat
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeoutSeconds
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Provider = strings.ToLower(strings.TrimSpace(c.Transcription.Provider))
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = defaultProvider
	}
	c.Transcription.Language = strings.TrimSpace(c.Transcription.Language)
	c.Transcription.APIKey = strings.TrimSpace(c.Transcription.APIKey)
	if c.Transcription.APIKey == "" {
		switch c.Transcription.Provider {
		case "whisper":
			if value, ok := os.LookupEnv("WHISPER_API_KEY"); ok {
				c.Transcription.APIKey = strings.TrimSpace(value)
			} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
				c.Transcription.APIKey = strings.TrimSpace(value)
			}
		default:
			if value, ok := os.LookupEnv("ASSEMBLYAI_API_KEY"); ok {
				c.Transcription.APIKey = strings.TrimSpace(value)
			}
		}
	}
	c.Transcription.BaseURL = strings.TrimSpace(c.Transcription.BaseURL)
	if c.Transcription.BaseURL == "" {
		switch c.Transcription.Provider {
		case "whisper":
			c.Transcription.BaseURL = defaultWhisperBaseURL
		default:
			c.Transcription.BaseURL = defaultAssemblyAIBaseURL
		}
	}
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" && c.Transcription.Provider == "whisper" {
		c.Transcription.Model = defaultWhisperModel
	}
	if c.Transcription.PollIntervalSeconds <= 0 {
		c.Transcription.PollIntervalSeconds = defaultPollIntervalSeconds
	}
	if c.Transcription.TimeoutSeconds <= 0 {
		c.Transcription.TimeoutSeconds = defaultTranscribeTimeoutSeconds
	}
	if c.Transcription.MaxRetries < 0 {
		c.Transcription.MaxRetries = defaultMaxRetries
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.MaxParallel <= 0 {
		c.Workflow.MaxParallel = 1
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
