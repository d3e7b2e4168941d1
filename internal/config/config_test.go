package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "KLING_COOKIE", "KLING_BASE_URL", "POLL_INTERVAL",
		"WEBHOOK_TIMEOUT", "TEMP_DIR", "S3_BUCKET", "S3_REGION",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "LOG_FORMAT", "LOG_LEVEL",
	} {
		// t.Setenv restores the original value after the test
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_RequiredCookie(t *testing.T) {
	t.Run("missing KLING_COOKIE returns error", func(t *testing.T) {
		clearEnv(t)

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrKlingCookieRequired)
	})

	t.Run("cookie present succeeds", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("KLING_COOKIE", "session=abc")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "session=abc", cfg.KlingCookie)
	})
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("KLING_COOKIE", "session=abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://klingai.com", cfg.KlingBaseURL)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, "/tmp/kling-api", cfg.TempDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("KLING_COOKIE", "session=abc")
	t.Setenv("PORT", "3000")
	t.Setenv("KLING_BASE_URL", "https://proxy.internal")
	t.Setenv("POLL_INTERVAL", "2s")
	t.Setenv("TEMP_DIR", "/custom/temp")
	t.Setenv("S3_BUCKET", "my-bucket")
	t.Setenv("S3_REGION", "eu-west-1")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "https://proxy.internal", cfg.KlingBaseURL)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, "/custom/temp", cfg.TempDir)
	assert.True(t, cfg.S3Enabled())
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	assert.ErrorIs(t, cfg.Validate(), ErrKlingCookieRequired)

	cfg.KlingCookie = "session=abc"
	assert.NoError(t, cfg.Validate())
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := &Config{
		KlingCookie:        "session=super-secret",
		AWSSecretAccessKey: "aws-secret",
	}

	s := cfg.String()
	assert.NotContains(t, s, "super-secret")
	assert.NotContains(t, s, "aws-secret")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}
