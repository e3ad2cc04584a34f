package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/AirShot/internal/compose"
)

func loadFrom(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	v, err := New(path)
	require.NoError(t, err)
	return Load(v)
}

func TestDefaults(t *testing.T) {
	cfg, err := loadFrom(t, "")
	require.NoError(t, err)

	assert.Equal(t, compose.ModeCollage, cfg.Mode())
	assert.Equal(t, "png", cfg.Output.Format)
	assert.Equal(t, 90, cfg.Output.Quality)
	assert.Equal(t, compose.DefaultInsetRatio, cfg.Layout.InsetRatio)
	assert.Equal(t, compose.DefaultInsetMargin, cfg.Layout.InsetMargin)
	assert.Equal(t, 800, cfg.Layout.FitWidth)
	assert.Equal(t, "UploadFileToS3BucketResult", cfg.Upload.ResultPath)
	assert.Equal(t, 30*time.Second, cfg.Upload.Timeout)
	assert.Equal(t, "url", cfg.Notify.WebhookParam)
	assert.NotEmpty(t, cfg.Output.Dir)
	assert.Regexp(t, `^airshot-[0-9a-f]{8}$`, cfg.Notify.ClientID)
	assert.Empty(t, cfg.Upload.Token)
	assert.False(t, cfg.UploadReady())
}

func TestConfigFile(t *testing.T) {
	cfg, err := loadFrom(t, `
output:
  dir: /tmp/shots
  format: jpeg
  quality: 70
layout:
  mode: pip
  inset_ratio: 3.2
  inset_margin: 10
upload:
  endpoint: https://storage.example.com/upload
  timeout: 5s
notify:
  webhook_url: https://hooks.example.com/trigger
`)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/shots", cfg.Output.Dir)
	assert.Equal(t, "jpeg", cfg.Output.Format)
	assert.Equal(t, 70, cfg.Output.Quality)
	assert.Equal(t, compose.ModePIP, cfg.Mode())
	assert.Equal(t, 3.2, cfg.Layout.InsetRatio)
	assert.Equal(t, 10, cfg.Layout.InsetMargin)
	assert.Equal(t, 5*time.Second, cfg.Upload.Timeout)
	assert.True(t, cfg.UploadReady())
	assert.Equal(t, "https://hooks.example.com/trigger", cfg.Notify.WebhookURL)
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("AIRSHOT_UPLOAD_TOKEN", "secret-token")
	t.Setenv("AIRSHOT_UPLOAD_COOKIE", "session=abc")
	t.Setenv("AIRSHOT_LAYOUT_MODE", "separate")

	cfg, err := loadFrom(t, "upload:\n  token: from-file\n")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.Upload.Token)
	assert.Equal(t, "session=abc", cfg.Upload.Cookie)
	assert.Equal(t, compose.ModeSeparate, cfg.Mode())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "bad mode", yaml: "layout:\n  mode: grid\n"},
		{name: "bad format", yaml: "output:\n  format: gif\n"},
		{name: "bad quality", yaml: "output:\n  quality: 0\n"},
		{name: "bad ratio", yaml: "layout:\n  inset_ratio: 0.5\n"},
		{name: "negative margin", yaml: "layout:\n  inset_margin: -1\n"},
		{name: "fit without box", yaml: "layout:\n  fit: true\n  fit_width: 0\n"},
		{name: "zero timeout", yaml: "upload:\n  timeout: 0s\n"},
		{name: "negative notify timeout", yaml: "notify:\n  timeout: -5s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFrom(t, tt.yaml)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestMissingExplicitConfigFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestExpandDir(t *testing.T) {
	cfg := &Config{Output: OutputConfig{Dir: "/abs/path"}}
	assert.Equal(t, "/abs/path", cfg.ExpandDir())

	cfg.Output.Dir = filepath.Join("~", "shots")
	assert.NotContains(t, cfg.ExpandDir(), "~")
}
