// Package upstream forwards chat and image requests to the AI provider.
// Request shaping is limited to filling defaults; responses are opaque.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrInvalidBody = errors.New("invalid JSON body")

type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	ChatModel   string        `mapstructure:"chat_model"`
	ImageModel  string        `mapstructure:"image_model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Response is the provider's answer, passed through untouched.
type Response struct {
	Status int
	Body   []byte
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model    string          `json:"model,omitempty"`
	Messages json.RawMessage `json:"messages,omitempty"`
}

type chatUpstreamRequest struct {
	Model       string          `json:"model"`
	Messages    json.RawMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

// Chat forwards {model?, messages} to the chat completion endpoint with the
// configured model, temperature and token limit filled in.
func (c *Client) Chat(ctx context.Context, body []byte) (*Response, error) {
	var req chatRequest
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}
	out := chatUpstreamRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	if out.Model == "" {
		out.Model = c.cfg.ChatModel
	}
	if len(out.Messages) == 0 || string(out.Messages) == "null" {
		out.Messages = json.RawMessage("[]")
	}
	return c.post(ctx, "/chat/completions", out)
}

// Image forwards the caller's generation parameters. The model defaults to
// the configured one and the image is always requested as base64.
func (c *Client) Image(ctx context.Context, body []byte) (*Response, error) {
	req := map[string]json.RawMessage{}
	if err := decodeBody(body, &req); err != nil {
		return nil, err
	}
	if req == nil {
		req = map[string]json.RawMessage{}
	}
	if m, ok := req["model"]; !ok || string(m) == `""` || string(m) == "null" {
		req["model"], _ = json.Marshal(c.cfg.ImageModel)
	}
	req["return_binary"] = json.RawMessage("false")
	return c.post(ctx, "/image/generate", req)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*Response, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode upstream request: %w", err)
	}
	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream %s: %w", path, err)
	}
	log.Info().
		Str("module", "upstream").
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("upstream call")
	return &Response{Status: resp.StatusCode, Body: data}, nil
}

// decodeBody treats an empty body as {}.
func decodeBody(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return nil
}
