package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	ConsumerKey       string `mapstructure:"twitter_consumer_key"`
	ConsumerSecret    string `mapstructure:"twitter_consumer_secret"`
	AccessToken       string `mapstructure:"twitter_access_token"`
	AccessTokenSecret string `mapstructure:"twitter_access_token_secret"`

	APIBaseURL            string        `mapstructure:"api_base_url"`
	UserAgent             string        `mapstructure:"user_agent"`
	EndpointsFile         string        `mapstructure:"endpoints_file"`
	RequestTimeoutSeconds int64         `mapstructure:"request_timeout_seconds"`
	RequestTimeout        time.Duration `mapstructure:"-"`

	FeedsFile           string        `mapstructure:"feeds_file"`
	PublishersFile      string        `mapstructure:"publishers_file"`
	PollIntervalSeconds int64         `mapstructure:"poll_interval"`
	PollInterval        time.Duration `mapstructure:"-"`
	LinkPreviewEnabled  bool          `mapstructure:"link_preview_enabled"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "twitter-client")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("twitter_consumer_key", "")
	v.SetDefault("twitter_consumer_secret", "")
	v.SetDefault("twitter_access_token", "")
	v.SetDefault("twitter_access_token_secret", "")
	v.SetDefault("api_base_url", "https://api.twitter.com/1/")
	v.SetDefault("user_agent", "twitter-client/1.0")
	v.SetDefault("endpoints_file", "")
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("feeds_file", "./configs/feeds.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("poll_interval", 300) // seconds
	v.SetDefault("link_preview_enabled", false)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/seen.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, fmt.Errorf("api_base_url must not be empty")
	}
	if cfg.RequestTimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid request_timeout_seconds (must be zero or positive seconds)")
	}
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if cfg.PollIntervalSeconds <= 0 {
		return nil, fmt.Errorf("invalid poll_interval (must be positive seconds)")
	}
	cfg.PollInterval = time.Duration(cfg.PollIntervalSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}

// ValidateCredentials reports which OAuth credentials are missing.
func (c *Config) ValidateCredentials() error {
	var missing []string
	if strings.TrimSpace(c.ConsumerKey) == "" {
		missing = append(missing, "twitter_consumer_key")
	}
	if strings.TrimSpace(c.ConsumerSecret) == "" {
		missing = append(missing, "twitter_consumer_secret")
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		missing = append(missing, "twitter_access_token")
	}
	if strings.TrimSpace(c.AccessTokenSecret) == "" {
		missing = append(missing, "twitter_access_token_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	c.ConsumerSecret = mask(c.ConsumerSecret)
	c.AccessToken = mask(c.AccessToken)
	c.AccessTokenSecret = mask(c.AccessTokenSecret)
	return c
}
