package whisperapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"scribe/internal/services"
	"scribe/internal/transcript"
)

const providerName = "whisper"

// Options configures transcription requests.
type Options struct {
	LanguageCode string
}

// Client wraps an OpenAI-compatible audio transcription endpoint. A custom
// base URL covers Whisper-style hosted services beyond OpenAI itself.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a whisper client against baseURL with the given model.
func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
		cfg.BaseURL = trimmed
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
	}
}

// Name returns the provider identifier recorded in the index.
func (c *Client) Name() string {
	return providerName
}

// Transcribe submits the audio file as a multipart request and converts the
// verbose response. Whisper endpoints do not diarize, so the result carries
// words without speaker attribution.
func (c *Client) Transcribe(ctx context.Context, audioPath string, opts Options) (*transcript.Transcript, error) {
	if _, err := os.Stat(audioPath); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "transcribe", "request", fmt.Sprintf("audio file %q", audioPath), err)
	}

	req := openai.AudioRequest{
		Model:    c.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: opts.LanguageCode,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularityWord,
		},
	}
	resp, err := c.api.CreateTranscription(ctx, req)
	if err != nil {
		return nil, classify(err)
	}

	result := &transcript.Transcript{
		Provider:        providerName,
		Language:        resp.Language,
		DurationSeconds: resp.Duration,
		Text:            resp.Text,
	}
	for _, w := range resp.Words {
		result.Words = append(result.Words, transcript.Word{
			Text:  w.Word,
			Start: int64(w.Start * 1000),
			End:   int64(w.End * 1000),
		})
	}
	return result, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			return services.Wrap(services.ErrCredential, "transcribe", "request", "whisper endpoint rejected credentials", err)
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500:
			return services.Wrap(services.ErrTransient, "transcribe", "request", "whisper endpoint unavailable", err)
		default:
			return services.Wrap(services.ErrExternalTool, "transcribe", "request", "whisper endpoint error", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return services.Wrap(services.ErrTimeout, "transcribe", "request", "whisper request", err)
	}
	return services.Wrap(services.ErrTransient, "transcribe", "request", "whisper request", err)
}
