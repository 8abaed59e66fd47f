package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// APIKeyEnv is consulted when [LLMConfig.APIKey] is empty.
const APIKeyEnv = "GROQ_API_KEY"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	LLM      LLMConfig      `toml:"llm"`
	Routing  RoutingConfig  `toml:"routing"`
	Prompts  PromptsConfig  `toml:"prompts"`
	Database DatabaseConfig `toml:"database"`
}

// LLMConfig describes the OpenAI-compatible text generation endpoint and the two sampling profiles.
type LLMConfig struct {
	APIKey            string        `toml:"api_key"`
	BaseURL           string        `toml:"base_url"`
	Model             string        `toml:"model"`
	TimeoutSeconds    int           `toml:"timeout_seconds"`
	MaxRetries        int           `toml:"max_retries"`
	RequestsPerSecond float64       `toml:"requests_per_second"`
	Decider           ProfileConfig `toml:"decider"`
	Creative          ProfileConfig `toml:"creative"`
}

// ProfileConfig holds the sampling settings of one generation profile.
type ProfileConfig struct {
	Temperature float64 `toml:"temperature"`
}

// RoutingConfig controls how unknown classifier labels are handled.
type RoutingConfig struct {
	FallbackToTag bool `toml:"fallback_to_tag"`
}

// PromptsConfig points at an optional prompt template override file.
type PromptsConfig struct {
	Path string `toml:"path"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// Timeout returns the per-request timeout for generation calls.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveAPIKey returns the configured API key, falling back to [APIKeyEnv].
func (c LLMConfig) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv(APIKeyEnv)
}

// Validate checks value ranges. Credentials are checked where the client is built.
func (c *Config) Validate() error {
	if c.LLM.Model == "" {
		return fmt.Errorf("%w: llm.model is required", ErrInvalidConfig)
	}
	for name, p := range map[string]ProfileConfig{"decider": c.LLM.Decider, "creative": c.LLM.Creative} {
		if p.Temperature < 0 || p.Temperature > 2 {
			return fmt.Errorf("%w: llm.%s.temperature must be between 0 and 2", ErrInvalidConfig, name)
		}
	}
	if c.LLM.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: llm.requests_per_second must not be negative", ErrInvalidConfig)
	}
	if c.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: llm.timeout_seconds must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path, replacing any existing file.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
