package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Browser BrowserConfig `mapstructure:"browser"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Capture CaptureConfig `mapstructure:"capture"`
	Uploads UploadsConfig `mapstructure:"uploads"`
	Stream  StreamConfig  `mapstructure:"stream"`
}

// ServerConfig configures the HTTP intake server.
type ServerConfig struct {
	Environment string `mapstructure:"environment"`
	Port        string `mapstructure:"port"`
}

// BrowserConfig configures how the shared browser handle is obtained and
// how per-attempt contexts are shaped.
type BrowserConfig struct {
	// RemoteEndpoint is the managed browser websocket endpoint used in
	// production. When empty, a local browser is launched instead.
	RemoteEndpoint string `mapstructure:"remote_endpoint"`

	// RemoteToken authenticates against the remote endpoint.
	RemoteToken string `mapstructure:"remote_token"`

	Headless bool `mapstructure:"headless"`

	ProxyServer   string `mapstructure:"proxy_server"`
	ProxyUsername string `mapstructure:"proxy_username"`
	ProxyPassword string `mapstructure:"proxy_password"`

	UserAgent string `mapstructure:"user_agent"`

	ViewportWidth  int `mapstructure:"viewport_width"`
	ViewportHeight int `mapstructure:"viewport_height"`

	GeoLatitude  float64 `mapstructure:"geo_latitude"`
	GeoLongitude float64 `mapstructure:"geo_longitude"`
}

// RetryConfig is the bounded-retry policy applied around whole pipeline
// runs.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	Backoff     time.Duration `mapstructure:"backoff"`
}

// CaptureConfig configures failure screenshot capture.
type CaptureConfig struct {
	Dir string `mapstructure:"dir"`
}

// UploadsConfig configures where intake photos are staged on disk.
type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

// StreamConfig configures the progress event stream.
type StreamConfig struct {
	SubscriberBuffer int `mapstructure:"subscriber_buffer"`
}

// Load reads configuration from config.yaml (working dir or ./config) with
// ADPILOT_-prefixed environment overrides. Missing files are tolerated so
// the service can run on env vars and defaults alone.
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("ADPILOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

func setDefaults() {
	viper.SetDefault("server.environment", "development")
	viper.SetDefault("server.port", "8080")

	viper.SetDefault("browser.headless", true)
	viper.SetDefault("browser.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	viper.SetDefault("browser.viewport_width", 1280)
	viper.SetDefault("browser.viewport_height", 720)
	viper.SetDefault("browser.geo_latitude", 12.171216)
	viper.SetDefault("browser.geo_longitude", -86.372034)

	viper.SetDefault("retry.max_attempts", 3)
	viper.SetDefault("retry.backoff", 2*time.Second)

	viper.SetDefault("capture.dir", "captures")
	viper.SetDefault("uploads.dir", "uploads")

	viper.SetDefault("stream.subscriber_buffer", 128)
}
