package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
telegram:
  token: "123:abc"
stability:
  api_key: "sk-test"
`

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, "sk-test", cfg.Stability.APIKey)
	assert.Equal(t, OtpChannelChat, cfg.OTP.Channel)
	assert.Equal(t, "data/gallery", cfg.Gallery.Dir)
	require.NotNil(t, cfg.CoreConfig())
	assert.Equal(t, "longpoll", cfg.CoreConfig().Telegram.RunMode)
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
telegram:
  token: "123:abc"
stability:
  api_key: "sk-test"
  engine: "custom-engine"
  cfg_scale: 9
  timeout_seconds: 30
otp:
  channel: SMS
  ttl_seconds: 120
  max_attempts: 5
  resend_seconds: 30
  sms:
    api_key: "mobizon-key"
    sender: "IMGKING"
gallery:
  dir: /var/lib/imageking/gallery
  album_size: 3
`))
	require.NoError(t, err)

	assert.Equal(t, "custom-engine", cfg.Stability.Engine)
	assert.Equal(t, 9.0, cfg.Stability.CfgScale)
	assert.Equal(t, OtpChannelSMS, cfg.OTP.Channel)
	assert.Equal(t, 120, cfg.OTP.TTLSeconds)
	assert.Equal(t, 5, cfg.OTP.MaxAttempts)
	assert.Equal(t, "mobizon-key", cfg.OTP.SMS.APIKey)
	assert.Equal(t, "/var/lib/imageking/gallery", cfg.Gallery.Dir)
	assert.Equal(t, 3, cfg.Gallery.AlbumSize)
}

func TestLoadMissingStabilityKey(t *testing.T) {
	_, err := Load(writeConfig(t, `
telegram:
  token: "123:abc"
`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "stability.api_key")
}

func TestLoadSMSChannelNeedsKey(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
otp:
  channel: sms
`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "otp.sms.api_key")
}

func TestLoadSMSChannelDryRunNeedsNoKey(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
otp:
  channel: sms
  sms:
    dry_run: true
`))
	require.NoError(t, err)
	assert.Equal(t, OtpChannelSMS, cfg.OTP.Channel)
}

func TestLoadInvalidChannel(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
otp:
  channel: carrier-pigeon
`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "otp.channel")
}

func TestLoadNegativeOtpLimits(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
otp:
  ttl_seconds: -1
`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "otp limits")
}
