// Package config loads and validates the assistant's YAML configuration.
package config

import "time"

// Config is the fully-resolved runtime configuration.
type Config struct {
	configDir string

	Bot          *BotConfig
	Orchestrator *OrchestratorConfig
	Slack        *SlackConfig
	Tables       *TablesConfig
	History      *HistoryConfig

	// LLMProvider is the active provider key (from ANALYZA_LLM_PROVIDER or
	// the llm.provider YAML field).
	LLMProvider string

	LLMProviderRegistry *LLMProviderRegistry
}

// ConfigDir returns the directory the configuration was loaded from.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// ActiveProvider resolves the configured LLM provider.
func (c *Config) ActiveProvider() (*LLMProviderConfig, error) {
	return c.LLMProviderRegistry.Get(c.LLMProvider)
}

// BotConfig holds the assistant's identity and platform settings.
type BotConfig struct {
	Name             string   `yaml:"name"`
	Platform         string   `yaml:"platform"`
	AllowedPlatforms []string `yaml:"allowed_platforms"`
}

// OrchestratorConfig bounds a single conversation run.
type OrchestratorConfig struct {
	// MaxDepth is the hard ceiling on LLM round-trips per run. A run always
	// terminates in at most MaxDepth+1 round-trips.
	MaxDepth int `yaml:"max_depth"`

	// RequestTimeout applies to each individual LLM round-trip.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// SlackConfig holds Slack ingress/egress settings. Token values are resolved
// from the named environment variables, never stored in YAML.
type SlackConfig struct {
	TokenEnv         string `yaml:"token_env"`
	SigningSecretEnv string `yaml:"signing_secret_env"`
}

// TablesConfig points at the per-table descriptor directory used to build the
// SQL tool's schema prompt.
type TablesConfig struct {
	DescriptorDir string `yaml:"descriptor_dir"`
}

// HistoryConfig bounds per-user stored conversation history.
type HistoryConfig struct {
	MaxMessages int `yaml:"max_messages"`
}

// LLMProviderConfig describes one OpenAI-compatible provider endpoint.
type LLMProviderConfig struct {
	// Provider is the wire dialect ("openai" or "gemini"); gemini gets its
	// tool schemas sanitized before each call.
	Provider string `yaml:"provider"`

	// BaseURL of the chat-completions API.
	BaseURL string `yaml:"url"`

	DefaultModel string   `yaml:"default_model"`
	Models       []string `yaml:"models"`

	// APIKeyEnv names the environment variable carrying the API key.
	APIKeyEnv string `yaml:"api_key_env"`
}
