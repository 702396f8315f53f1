package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"scribe/internal/services"
	"scribe/internal/transcript"
)

const providerName = "assemblyai"

// Options configures transcription requests.
type Options struct {
	SpeakerLabels bool
	LanguageCode  string
}

// Client talks to the AssemblyAI REST API: upload the audio, submit a
// transcript job, poll until it finishes.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	pollLimiter *rate.Limiter
}

// NewClient creates an AssemblyAI client. pollInterval bounds how often the
// transcript resource is fetched while a job is queued or processing.
func NewClient(baseURL, apiKey string, pollInterval time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.assemblyai.com"
	}
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 5 * time.Minute},
		pollLimiter: rate.NewLimiter(rate.Every(pollInterval), 1),
	}
}

// WithHTTPClient sets a custom HTTP client (for testing).
func (c *Client) WithHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// Name returns the provider identifier recorded in the index.
func (c *Client) Name() string {
	return providerName
}

// Transcribe uploads audioPath, submits a transcription job, and polls until
// the job completes or ctx expires.
func (c *Client) Transcribe(ctx context.Context, audioPath string, opts Options) (*transcript.Transcript, error) {
	audioURL, err := c.upload(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	jobID, err := c.submit(ctx, audioURL, opts)
	if err != nil {
		return nil, err
	}

	resource, err := c.poll(ctx, jobID)
	if err != nil {
		return nil, err
	}

	return convert(resource), nil
}

func (c *Client) upload(ctx context.Context, audioPath string) (string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "transcribe", "upload", fmt.Sprintf("audio file %q", audioPath), err)
	}
	defer file.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", file)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "transcribe", "upload", "build request", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.UploadURL == "" {
		return "", services.Wrap(services.ErrTransient, "transcribe", "upload", "response missing upload_url", nil)
	}
	return out.UploadURL, nil
}

func (c *Client) submit(ctx context.Context, audioURL string, opts Options) (string, error) {
	body, err := json.Marshal(transcriptRequest{
		AudioURL:      audioURL,
		SpeakerLabels: opts.SpeakerLabels,
		LanguageCode:  opts.LanguageCode,
	})
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "transcribe", "submit", "marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "transcribe", "submit", "build request", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var out transcriptResource
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", services.Wrap(services.ErrTransient, "transcribe", "submit", "response missing transcript id", nil)
	}
	return out.ID, nil
}

func (c *Client) poll(ctx context.Context, jobID string) (*transcriptResource, error) {
	for {
		if err := c.pollLimiter.Wait(ctx); err != nil {
			return nil, services.Wrap(services.ErrTimeout, "transcribe", "poll", fmt.Sprintf("job %s", jobID), err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+jobID, nil)
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "transcribe", "poll", "build request", err)
		}
		req.Header.Set("Authorization", c.apiKey)

		var out transcriptResource
		if err := c.do(req, &out); err != nil {
			return nil, err
		}

		switch out.Status {
		case statusCompleted:
			return &out, nil
		case statusError:
			return nil, services.Wrap(services.ErrExternalTool, "transcribe", "poll", fmt.Sprintf("job %s failed: %s", jobID, out.Error), nil)
		case statusQueued, statusProcessing:
			// keep polling
		default:
			return nil, services.Wrap(services.ErrTransient, "transcribe", "poll", fmt.Sprintf("job %s returned unknown status %q", jobID, out.Status), nil)
		}
	}
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return services.Wrap(services.ErrTimeout, "transcribe", "request", req.URL.Path, ctxErr)
		}
		return services.Wrap(services.ErrTransient, "transcribe", "request", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return services.Wrap(services.ErrTransient, "transcribe", "request", req.URL.Path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return services.Wrap(services.ErrCredential, "transcribe", "request", fmt.Sprintf("%s returned %d", req.URL.Path, resp.StatusCode), nil)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return services.Wrap(services.ErrTransient, "transcribe", "request", fmt.Sprintf("%s returned %d: %s", req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body))), nil)
	case resp.StatusCode >= 400:
		return services.Wrap(services.ErrExternalTool, "transcribe", "request", fmt.Sprintf("%s returned %d: %s", req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return services.Wrap(services.ErrTransient, "transcribe", "request", fmt.Sprintf("decode %s response", req.URL.Path), err)
	}
	return nil
}

func convert(resource *transcriptResource) *transcript.Transcript {
	t := &transcript.Transcript{
		Provider:        providerName,
		Language:        resource.LanguageCode,
		DurationSeconds: resource.AudioDuration,
		Text:            resource.Text,
	}
	for _, u := range resource.Utterances {
		t.Utterances = append(t.Utterances, transcript.Utterance{
			Speaker: u.Speaker,
			Text:    u.Text,
			Start:   u.Start,
			End:     u.End,
		})
	}
	for _, w := range resource.Words {
		t.Words = append(t.Words, transcript.Word{
			Text:       w.Text,
			Speaker:    w.Speaker,
			Start:      w.Start,
			End:        w.End,
			Confidence: w.Confidence,
		})
	}
	return t
}
