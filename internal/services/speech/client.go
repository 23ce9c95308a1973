// Package speech wraps the remote speech-to-text API. Requests upload one
// segment's audio payload; responses carry segment-local cue timings that the
// orchestrator offsets into the global timeline.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"subforge/internal/pipeline"
	"subforge/internal/subtitle"
)

const (
	defaultBaseURL = "https://api.openai.com/v1/audio/transcriptions"
	defaultModel   = "whisper-1"
	defaultTimeout = 60 * time.Second
)

// Config captures the runtime settings required to reach the service.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client posts segment audio and decodes verbose segment responses.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a speech client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.Model == "" {
		client.cfg.Model = defaultModel
	}
	return client
}

// Request describes one transcription upload.
type Request struct {
	Audio    []byte
	Filename string
	Format   string
	Language string
}

// segmentPayload is the verbose_json response shape. Fields are validated at
// this boundary so malformed responses never reach the merge stage.
type segmentPayload struct {
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
	Text  string   `json:"text"`
}

type transcriptionResponse struct {
	Segments []segmentPayload `json:"segments"`
	Error    *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Transcribe uploads the audio payload and returns cues with segment-local
// timings (the first cue starts near zero regardless of where the segment
// sits in the source media). Cue IDs are left empty; the orchestrator mints
// them at merge time.
func (c *Client) Transcribe(ctx context.Context, req Request) ([]subtitle.Cue, error) {
	if c.cfg.APIKey == "" {
		return nil, errors.New("speech: api key required")
	}
	if len(req.Audio) == 0 {
		return nil, errors.New("speech: audio payload required")
	}
	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		format := strings.TrimSpace(req.Format)
		if format == "" {
			format = "wav"
		}
		filename = "segment." + format
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("speech: build form: %w", err)
	}
	if _, err := part.Write(req.Audio); err != nil {
		return nil, fmt.Errorf("speech: write payload: %w", err)
	}
	if err := writer.WriteField("model", c.cfg.Model); err != nil {
		return nil, fmt.Errorf("speech: write model field: %w", err)
	}
	if err := writer.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("speech: write format field: %w", err)
	}
	if lang := strings.TrimSpace(req.Language); lang != "" && lang != "auto" {
		if err := writer.WriteField("language", lang); err != nil {
			return nil, fmt.Errorf("speech: write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("speech: finalize form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, &body)
	if err != nil {
		return nil, fmt.Errorf("speech: new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("speech: http error: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech: http %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded transcriptionResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, pipeline.Wrap(pipeline.ErrParse, "speech", "decode", "invalid response body", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("speech: api error: %s", strings.TrimSpace(decoded.Error.Message))
	}
	return cuesFromSegments(decoded.Segments)
}

func cuesFromSegments(segments []segmentPayload) ([]subtitle.Cue, error) {
	cues := make([]subtitle.Cue, 0, len(segments))
	for i, seg := range segments {
		if seg.Start == nil || seg.End == nil {
			return nil, pipeline.Wrap(pipeline.ErrParse, "speech", "decode", fmt.Sprintf("segment %d missing timing", i), nil)
		}
		if *seg.Start < 0 || *seg.End < *seg.Start {
			return nil, pipeline.Wrap(pipeline.ErrParse, "speech", "decode", fmt.Sprintf("segment %d has invalid range [%f, %f]", i, *seg.Start, *seg.End), nil)
		}
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		cues = append(cues, subtitle.Cue{
			Range: subtitle.TimeRange{Start: *seg.Start, End: *seg.End},
			Text:  text,
		})
	}
	return cues, nil
}
