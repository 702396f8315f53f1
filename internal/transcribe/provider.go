package transcribe

import (
	"context"
	"fmt"
	"time"

	"scribe/internal/config"
	"scribe/internal/services"
	"scribe/internal/services/assemblyai"
	"scribe/internal/services/whisperapi"
	"scribe/internal/transcript"
)

// Request carries per-item transcription parameters.
type Request struct {
	SpeakerLabels bool
	Language      string
}

// Provider is a hosted speech-to-text backend.
type Provider interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string, req Request) (*transcript.Transcript, error)
}

// NewProvider builds the configured provider. A missing API key is a
// credential error so the batch aborts before any item is processed.
func NewProvider(cfg *config.Config) (Provider, error) {
	if cfg.Transcription.APIKey == "" {
		envHint := "ASSEMBLYAI_API_KEY"
		if cfg.Transcription.Provider == "whisper" {
			envHint = "WHISPER_API_KEY"
		}
		return nil, services.Wrap(services.ErrCredential, "transcribe", "configure",
			fmt.Sprintf("no API key for provider %q (set %s or transcription.api_key)", cfg.Transcription.Provider, envHint), nil)
	}

	switch cfg.Transcription.Provider {
	case "assemblyai":
		client := assemblyai.NewClient(
			cfg.Transcription.BaseURL,
			cfg.Transcription.APIKey,
			time.Duration(cfg.Transcription.PollIntervalSeconds)*time.Second,
		)
		return assemblyAIProvider{client: client}, nil
	case "whisper":
		client := whisperapi.NewClient(
			cfg.Transcription.BaseURL,
			cfg.Transcription.APIKey,
			cfg.Transcription.Model,
		)
		return whisperProvider{client: client}, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "configure",
			fmt.Sprintf("unknown provider %q", cfg.Transcription.Provider), nil)
	}
}

type assemblyAIProvider struct {
	client *assemblyai.Client
}

func (p assemblyAIProvider) Name() string { return p.client.Name() }

func (p assemblyAIProvider) Transcribe(ctx context.Context, audioPath string, req Request) (*transcript.Transcript, error) {
	return p.client.Transcribe(ctx, audioPath, assemblyai.Options{
		SpeakerLabels: req.SpeakerLabels,
		LanguageCode:  req.Language,
	})
}

type whisperProvider struct {
	client *whisperapi.Client
}

func (p whisperProvider) Name() string { return p.client.Name() }

func (p whisperProvider) Transcribe(ctx context.Context, audioPath string, req Request) (*transcript.Transcript, error) {
	return p.client.Transcribe(ctx, audioPath, whisperapi.Options{
		LanguageCode: req.Language,
	})
}
