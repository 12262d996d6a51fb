package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "imagekingbot/core/config"
	coredatabase "imagekingbot/core/database"
	"imagekingbot/internal/sms"
	"imagekingbot/internal/stability"
)

// OTP delivery channels.
const (
	OtpChannelChat = "chat"
	OtpChannelSMS  = "sms"
)

// OTPConfig tunes the verification challenge and its delivery channel.
type OTPConfig struct {
	Channel       string     `yaml:"channel" envconfig:"OTP_CHANNEL"`
	TTLSeconds    int        `yaml:"ttl_seconds" envconfig:"OTP_TTL_SECONDS"`
	MaxAttempts   int        `yaml:"max_attempts" envconfig:"OTP_MAX_ATTEMPTS"`
	ResendSeconds int        `yaml:"resend_seconds" envconfig:"OTP_RESEND_SECONDS"`
	SMS           sms.Config `yaml:"sms"`
}

// GalleryConfig controls gallery storage.
type GalleryConfig struct {
	Dir       string `yaml:"dir" envconfig:"GALLERY_DIR"`
	AlbumSize int    `yaml:"album_size" envconfig:"GALLERY_ALBUM_SIZE"`
}

// Config aggregates the core bot configuration with this bot's own sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database  coredatabase.Config `yaml:"database"`
	Stability stability.Config    `yaml:"stability"`
	OTP       OTPConfig           `yaml:"otp"`
	Gallery   GalleryConfig       `yaml:"gallery"`
}

// CoreConfig exposes the embedded core configuration to the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Stability.APIKey) == "" {
		return fmt.Errorf("stability.api_key is required")
	}

	channel := strings.ToLower(strings.TrimSpace(cfg.OTP.Channel))
	if channel == "" {
		channel = OtpChannelChat
	}
	switch channel {
	case OtpChannelChat:
	case OtpChannelSMS:
		if strings.TrimSpace(cfg.OTP.SMS.APIKey) == "" && !cfg.OTP.SMS.DryRun {
			return fmt.Errorf("otp.sms.api_key is required when otp.channel is 'sms'")
		}
	default:
		return fmt.Errorf("invalid otp.channel %q; allowed: chat, sms", cfg.OTP.Channel)
	}
	cfg.OTP.Channel = channel

	if cfg.OTP.TTLSeconds < 0 || cfg.OTP.MaxAttempts < 0 || cfg.OTP.ResendSeconds < 0 {
		return fmt.Errorf("otp limits must be >= 0")
	}

	if strings.TrimSpace(cfg.Gallery.Dir) == "" {
		cfg.Gallery.Dir = "data/gallery"
	}
	return nil
}
