// Package fishspeech talks to a locally hosted Fish Speech server. The
// server returns WAV payloads which are decoded to PCM via ffmpeg.
package fishspeech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dubsync/internal/audio"
	"dubsync/internal/services"
	"dubsync/internal/tts"
)

const (
	defaultBaseURL     = "http://127.0.0.1:8080/v1/tts"
	defaultHTTPTimeout = 120 * time.Second
)

// Config captures the settings for a local Fish Speech server.
type Config struct {
	BaseURL        string
	ReferenceID    string
	TimeoutSeconds int
	SampleRate     int
}

// Decoder turns a compressed audio payload into mono f32 PCM. Satisfied by
// ffmpegio.Service.
type Decoder interface {
	DecodeBytes(ctx context.Context, data []byte, format string, sampleRate int) ([]float32, error)
}

// Client wraps a Fish Speech HTTP server. It implements tts.Engine.
type Client struct {
	cfg        Config
	decoder    Decoder
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a Fish Speech client.
func NewClient(cfg Config, decoder Decoder, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			ReferenceID:    strings.TrimSpace(cfg.ReferenceID),
			TimeoutSeconds: cfg.TimeoutSeconds,
			SampleRate:     cfg.SampleRate,
		},
		decoder:    decoder,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.SampleRate <= 0 {
		client.cfg.SampleRate = audio.DefaultSampleRate
	}
	return client
}

type ttsRequest struct {
	Text        string  `json:"text"`
	ReferenceID string  `json:"reference_id,omitempty"`
	Speed       float64 `json:"speed,omitempty"`
	Format      string  `json:"format"`
}

// Synthesize posts the utterance to the local server and decodes the WAV
// response.
func (c *Client) Synthesize(ctx context.Context, req tts.Request) (tts.Result, error) {
	var empty tts.Result
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return empty, services.Wrap(services.ErrSynthesis, "fishspeech", "synthesize", "empty input text", nil)
	}

	payload := ttsRequest{
		Text:        text,
		ReferenceID: c.cfg.ReferenceID,
		Speed:       req.Speed,
		Format:      "wav",
	}
	if req.Voice != "" {
		payload.ReferenceID = req.Voice
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return empty, services.Wrap(services.ErrSynthesis, "fishspeech", "synthesize", "encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return empty, services.Wrap(services.ErrSynthesis, "fishspeech", "synthesize", "new request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return empty, services.Wrap(services.ErrSynthesis, "fishspeech", "synthesize", "http error", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, services.Wrap(services.ErrSynthesis, "fishspeech", "synthesize", "read body", err)
	}
	if resp.StatusCode != http.StatusOK {
		return empty, services.Wrap(services.ErrSynthesis, "fishspeech", "synthesize",
			fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	if len(body) == 0 {
		return empty, services.Wrap(services.ErrSynthesis, "fishspeech", "synthesize", "empty audio payload", nil)
	}

	samples, err := c.decoder.DecodeBytes(ctx, body, "wav", c.cfg.SampleRate)
	if err != nil {
		return empty, err
	}

	return tts.Result{
		Samples:         samples,
		SampleRate:      c.cfg.SampleRate,
		NaturalDuration: float64(len(samples)) / float64(c.cfg.SampleRate),
	}, nil
}
