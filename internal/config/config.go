package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/timmy/dishlingo/internal/service"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	VLM      VLMConfig      `mapstructure:"vlm"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
	// MaxBodyMB caps request bodies; five phone photos as data URIs are large.
	MaxBodyMB int `mapstructure:"max_body_mb"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type PipelineConfig struct {
	MinImages         int  `mapstructure:"min_images"`
	MaxImages         int  `mapstructure:"max_images"`
	EnrichmentEnabled bool `mapstructure:"enrichment_enabled"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from an optional file, .env and the environment.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Secrets and deploy-time knobs
	v.BindEnv("server.port", "PORT")
	v.BindEnv("vlm.api_key", "OPENAI_API_KEY")
	v.BindEnv("vlm.base_url", "OPENAI_BASE_URL")
	v.BindEnv("vlm.model", "VLM_MODEL")
	v.BindEnv("vlm.api_key_env", "VLM_API_KEY_ENV")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.VLM.ResolveEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("server.max_body_mb", 50)
	v.SetDefault("vlm.provider", "openai")
	v.SetDefault("vlm.model", "gpt-4o-mini")
	v.SetDefault("vlm.base_url", "https://api.openai.com/v1")
	v.SetDefault("vlm.timeout", 60*time.Second)
	v.SetDefault("vlm.retry_count", 2)
	v.SetDefault("vlm.max_tokens", 2000)
	v.SetDefault("vlm.temperature", 0.2)
	v.SetDefault("pipeline.min_images", 1)
	v.SetDefault("pipeline.max_images", 5)
	v.SetDefault("pipeline.enrichment_enabled", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Validate checks values that span sections.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server: port must be positive")
	}
	if c.Pipeline.MinImages < 1 {
		return fmt.Errorf("pipeline: min_images must be at least 1")
	}
	if c.Pipeline.MaxImages < c.Pipeline.MinImages {
		return fmt.Errorf("pipeline: max_images (%d) must be >= min_images (%d)",
			c.Pipeline.MaxImages, c.Pipeline.MinImages)
	}
	return c.VLM.Validate()
}

// MaxAnalysisDuration is the longest one batch can run: a menu check and an
// extraction per image in sequence, then the enrichment pair in parallel,
// with every call using all of its retries.
func (c *Config) MaxAnalysisDuration() time.Duration {
	calls := 2*c.Pipeline.MaxImages + 1
	perCall := time.Duration(c.VLM.RetryCount+1)*c.VLM.Timeout +
		time.Duration(c.VLM.RetryCount)*service.RetryMaxWait
	return time.Duration(calls) * perCall
}
