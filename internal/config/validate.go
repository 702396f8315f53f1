package config

import (
	"errors"
	"fmt"
)

var knownProviders = map[string]struct{}{
	"assemblyai": {},
	"whisper":    {},
}

var knownAudioFormats = map[string]struct{}{
	"m4a":  {},
	"mp3":  {},
	"wav":  {},
	"opus": {},
	"flac": {},
}

// Validate ensures the configuration is usable. Credentials are checked later,
// at provider construction, so read-only commands work without an API key.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StagingDir == "" {
		return errors.New("paths.staging_dir must be set")
	}
	if c.Paths.LibraryDir == "" {
		return errors.New("paths.library_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if _, ok := knownAudioFormats[c.Fetch.AudioFormat]; !ok {
		return fmt.Errorf("fetch.audio_format: unsupported value %q", c.Fetch.AudioFormat)
	}
	return nil
}

func (c *Config) validateTranscription() error {
	if _, ok := knownProviders[c.Transcription.Provider]; !ok {
		return fmt.Errorf("transcription.provider: unsupported value %q (expected \"assemblyai\" or \"whisper\")", c.Transcription.Provider)
	}
	if c.Transcription.PollIntervalSeconds > c.Transcription.TimeoutSeconds {
		return errors.New("transcription.poll_interval_seconds must not exceed transcription.timeout_seconds")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.MaxParallel > 16 {
		return errors.New("workflow.max_parallel must be 16 or less")
	}
	return nil
}
