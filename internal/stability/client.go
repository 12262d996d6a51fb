// Package stability implements the Stability.ai text-to-image REST client.
package stability

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"imagekingbot/core/logger"
	"log/slog"
)

const (
	defaultBaseURL  = "https://api.stability.ai"
	defaultEngine   = "stable-diffusion-xl-1024-v1-0"
	defaultCfgScale = 7.0
	defaultTimeout  = 60 * time.Second
)

// Config holds Stability API settings.
type Config struct {
	APIKey string `yaml:"api_key" envconfig:"STABILITY_API_KEY"`
	Engine string `yaml:"engine" envconfig:"STABILITY_ENGINE"`
	// CfgScale controls prompt adherence; 0 selects the default.
	CfgScale       float64 `yaml:"cfg_scale" envconfig:"STABILITY_CFG_SCALE"`
	TimeoutSeconds int     `yaml:"timeout_seconds" envconfig:"STABILITY_TIMEOUT_SECONDS"`
	BaseURL        string  `yaml:"base_url" envconfig:"STABILITY_BASE_URL"`
}

// Client calls the text-to-image endpoint. Generation calls are not retried:
// the request is not idempotent and failures are surfaced for manual retry.
type Client struct {
	cfg  Config
	http *http.Client
}

type textPrompt struct {
	Text string `json:"text"`
}

type generateRequest struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CfgScale    float64      `json:"cfg_scale"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Samples     int          `json:"samples"`
}

type generateResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

// New constructs a client with tuned HTTP transport defaults.
func New(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(cfg.Engine) == "" {
		cfg.Engine = defaultEngine
	}
	if cfg.CfgScale <= 0 {
		cfg.CfgScale = defaultCfgScale
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// TextToImage generates a single image for the prompt at the given size and
// returns the raw image bytes. Response bodies are never logged.
func (c *Client) TextToImage(ctx context.Context, prompt string, width, height int) ([]byte, error) {
	payload := generateRequest{
		TextPrompts: []textPrompt{{Text: prompt}},
		CfgScale:    c.cfg.CfgScale,
		Width:       width,
		Height:      height,
		Samples:     1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("stability: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/generation/%s/text-to-image", c.cfg.BaseURL, c.cfg.Engine)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("stability: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error(ctx, "stability", "generate.fail",
			slog.String("status", "fail"),
			slog.String("engine", c.cfg.Engine),
			slog.Int("width", width),
			slog.Int("height", height),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("stability: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error(ctx, "stability", "generate.fail",
			slog.String("status", "fail"),
			slog.String("engine", c.cfg.Engine),
			slog.Int("http_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("stability: unexpected status %s", resp.Status)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("stability: decode response: %w", err)
	}
	if len(decoded.Artifacts) == 0 || decoded.Artifacts[0].Base64 == "" {
		return nil, fmt.Errorf("stability: empty artifact list")
	}

	image, err := base64.StdEncoding.DecodeString(decoded.Artifacts[0].Base64)
	if err != nil {
		return nil, fmt.Errorf("stability: decode artifact: %w", err)
	}

	logger.Info(ctx, "stability", "generate.success",
		slog.String("status", "ok"),
		slog.String("engine", c.cfg.Engine),
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Int("prompt_len", len(prompt)),
		slog.Int("image_bytes", len(image)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return image, nil
}
