package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"imagekingbot/core/logger"
	"log/slog"
)

const (
	defaultBaseURL = "https://api.mobizon.kz"
	sendPath       = "/service/message/sendsmsmessage"
	defaultTimeout = 10 * time.Second
)

// Config holds SMS gateway settings.
type Config struct {
	APIKey string `yaml:"api_key" envconfig:"SMS_API_KEY"`
	Sender string `yaml:"sender" envconfig:"SMS_SENDER"`
	// DryRun logs the message instead of calling the gateway.
	DryRun  bool   `yaml:"dry_run" envconfig:"SMS_DRY_RUN"`
	BaseURL string `yaml:"base_url" envconfig:"SMS_BASE_URL"`
}

// Client sends text messages through a Mobizon-style HTTP gateway.
type Client struct {
	cfg  Config
	http *http.Client
}

type sendResponse struct {
	Code int `json:"code"`
	Data struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

// New constructs a gateway client. An empty API key forces dry-run mode.
func New(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.APIKey == "" {
		cfg.DryRun = true
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// Send delivers text to the given phone number.
func (c *Client) Send(ctx context.Context, to, text string) error {
	if c.cfg.DryRun {
		logger.Info(ctx, "sms", "send.dry_run",
			slog.String("status", "ok"),
			slog.String("phone", to),
		)
		return nil
	}

	form := url.Values{
		"apiKey":    {c.cfg.APIKey},
		"recipient": {to},
		"text":      {text},
	}
	if c.cfg.Sender != "" {
		form.Set("from", c.cfg.Sender)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+sendPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error(ctx, "sms", "send.fail",
			slog.String("status", "fail"),
			slog.String("phone", to),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("sms send: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("sms response read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sms gateway status: %s", resp.Status)
	}

	var result sendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("sms response parse: %w", err)
	}
	if result.Code != 0 {
		return fmt.Errorf("sms gateway error code: %d", result.Code)
	}

	logger.Info(ctx, "sms", "send.success",
		slog.String("status", "ok"),
		slog.String("phone", to),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}
