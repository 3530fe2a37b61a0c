package config

import (
	"fmt"
	"os"
	"time"
)

// VLMConfig configures the vision inference backend.
type VLMConfig struct {
	Provider    string        `mapstructure:"provider"`    // "openai" or "openai-compatible"
	Model       string        `mapstructure:"model"`       // model name/ID
	APIKey      string        `mapstructure:"api_key"`     // set directly or via APIKeyEnv
	APIKeyEnv   string        `mapstructure:"api_key_env"` // env var holding the key
	BaseURL     string        `mapstructure:"base_url"`    // OpenAI-compatible base URL
	Timeout     time.Duration `mapstructure:"timeout"`     // per call
	RetryCount  int           `mapstructure:"retry_count"` // retries on 429/5xx
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float32       `mapstructure:"temperature"`
}

// ResolveEnvVars loads the API key from APIKeyEnv when no direct key is set.
func (c *VLMConfig) ResolveEnvVars() {
	if c.APIKeyEnv != "" && c.APIKey == "" {
		if val := os.Getenv(c.APIKeyEnv); val != "" {
			c.APIKey = val
		}
	}
}

// Validate checks that the VLM configuration has all required fields.
// The API key is not required here so the server can start for health checks;
// use ValidateWithAPIKey before issuing calls.
func (c *VLMConfig) Validate() error {
	switch c.Provider {
	case "openai", "openai-compatible":
	default:
		return fmt.Errorf("vlm: unknown provider %q", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("vlm: model is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("vlm: base_url is required")
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("vlm: retry_count must not be negative")
	}
	return nil
}

// ValidateWithAPIKey validates the configuration including the API key.
func (c *VLMConfig) ValidateWithAPIKey() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		env := c.APIKeyEnv
		if env == "" {
			env = "OPENAI_API_KEY"
		}
		return fmt.Errorf("vlm: api_key is required (set directly or via %s)", env)
	}
	return nil
}
