package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/junsooki/AirShot/internal/compose"
	"github.com/junsooki/AirShot/internal/encoder"
)

// EnvPrefix prefixes every environment variable, e.g. AIRSHOT_UPLOAD_TOKEN.
const EnvPrefix = "AIRSHOT"

var ErrInvalid = errors.New("invalid configuration")

// Config holds all runtime configuration.
type Config struct {
	Verbose bool         `mapstructure:"verbose"`
	Output  OutputConfig `mapstructure:"output"`
	Layout  LayoutConfig `mapstructure:"layout"`
	Upload  UploadConfig `mapstructure:"upload"`
	Notify  NotifyConfig `mapstructure:"notify"`
	Watch   WatchConfig  `mapstructure:"watch"`
}

type OutputConfig struct {
	Dir     string `mapstructure:"dir"`
	Format  string `mapstructure:"format"`
	Quality int    `mapstructure:"quality"`
	Preview bool   `mapstructure:"preview"`
}

type LayoutConfig struct {
	Mode        string  `mapstructure:"mode"`
	Fit         bool    `mapstructure:"fit"`
	FitWidth    int     `mapstructure:"fit_width"`
	FitHeight   int     `mapstructure:"fit_height"`
	InsetRatio  float64 `mapstructure:"inset_ratio"`
	InsetMargin int     `mapstructure:"inset_margin"`
}

// UploadConfig configures the hosting API. Token and Cookie are never
// given defaults; supply them through the environment or a config file.
type UploadConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Endpoint   string        `mapstructure:"endpoint"`
	Token      string        `mapstructure:"token"`
	Cookie     string        `mapstructure:"cookie"`
	ResultPath string        `mapstructure:"result_path"`
	KeepNames  bool          `mapstructure:"keep_names"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type NotifyConfig struct {
	WebhookURL   string        `mapstructure:"webhook_url"`
	WebhookParam string        `mapstructure:"webhook_param"`
	WebSocketURL string        `mapstructure:"websocket_url"`
	ClientID     string        `mapstructure:"client_id"`
	Desktop      bool          `mapstructure:"desktop"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type WatchConfig struct {
	Cron string `mapstructure:"cron"`
}

// DefaultOutputDir is where screenshots land when output.dir is unset.
func DefaultOutputDir() string {
	if pics := xdg.UserDirs.Pictures; pics != "" {
		return filepath.Join(pics, "AirShot")
	}
	return filepath.Join(xdg.Home, "AirShot")
}

// SetDefaults registers every key with its default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)

	v.SetDefault("output.dir", DefaultOutputDir())
	v.SetDefault("output.format", "png")
	v.SetDefault("output.quality", encoder.DefaultJPEGQuality)
	v.SetDefault("output.preview", false)

	v.SetDefault("layout.mode", string(compose.ModeCollage))
	v.SetDefault("layout.fit", false)
	v.SetDefault("layout.fit_width", compose.DefaultFitSize)
	v.SetDefault("layout.fit_height", compose.DefaultFitSize)
	v.SetDefault("layout.inset_ratio", compose.DefaultInsetRatio)
	v.SetDefault("layout.inset_margin", compose.DefaultInsetMargin)

	v.SetDefault("upload.enabled", true)
	v.SetDefault("upload.endpoint", "")
	v.SetDefault("upload.token", "")
	v.SetDefault("upload.cookie", "")
	v.SetDefault("upload.result_path", "UploadFileToS3BucketResult")
	v.SetDefault("upload.keep_names", false)
	v.SetDefault("upload.timeout", 30*time.Second)

	v.SetDefault("notify.webhook_url", "")
	v.SetDefault("notify.webhook_param", "url")
	v.SetDefault("notify.websocket_url", "")
	v.SetDefault("notify.client_id", "")
	v.SetDefault("notify.desktop", false)
	v.SetDefault("notify.timeout", 10*time.Second)

	v.SetDefault("watch.cron", "@every 10m")
}

// New returns a viper instance with defaults, env binding and the config
// search path set up. configFile overrides the search when non-empty.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, "airshot"))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load decodes v into a Config, fills derived values and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Notify.ClientID == "" {
		cfg.Notify.ClientID = fmt.Sprintf("airshot-%s", randomID())
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = DefaultOutputDir()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := compose.ParseMode(c.Layout.Mode); err != nil {
		return fmt.Errorf("%w: layout.mode: %v", ErrInvalid, err)
	}
	if _, err := encoder.New(c.Output.Format, c.Output.Quality); err != nil {
		return fmt.Errorf("%w: output.format: %v", ErrInvalid, err)
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("%w: output.quality must be 1-100, got %d", ErrInvalid, c.Output.Quality)
	}
	if c.Layout.InsetRatio < 1 {
		return fmt.Errorf("%w: layout.inset_ratio must be >= 1, got %g", ErrInvalid, c.Layout.InsetRatio)
	}
	if c.Layout.InsetMargin < 0 {
		return fmt.Errorf("%w: layout.inset_margin must be >= 0, got %d", ErrInvalid, c.Layout.InsetMargin)
	}
	if c.Layout.Fit && (c.Layout.FitWidth <= 0 || c.Layout.FitHeight <= 0) {
		return fmt.Errorf("%w: layout.fit_width and fit_height must be positive", ErrInvalid)
	}
	if c.Upload.Timeout <= 0 {
		return fmt.Errorf("%w: upload.timeout must be positive", ErrInvalid)
	}
	if c.Notify.Timeout <= 0 {
		return fmt.Errorf("%w: notify.timeout must be positive", ErrInvalid)
	}
	return nil
}

// Mode returns the parsed layout mode. Call after Validate.
func (c *Config) Mode() compose.Mode {
	m, _ := compose.ParseMode(c.Layout.Mode)
	return m
}

// UploadReady reports whether uploads are enabled and have an endpoint.
func (c *Config) UploadReady() bool {
	return c.Upload.Enabled && c.Upload.Endpoint != ""
}

// ExpandDir resolves a leading ~ in the output directory.
func (c *Config) ExpandDir() string {
	dir := c.Output.Dir
	if strings.HasPrefix(dir, "~"+string(os.PathSeparator)) || dir == "~" {
		dir = filepath.Join(xdg.Home, strings.TrimPrefix(dir, "~"))
	}
	return dir
}

func randomID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
