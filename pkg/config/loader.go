package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// analyzaYAMLConfig mirrors the analyza.yaml file structure.
type analyzaYAMLConfig struct {
	Bot          *BotConfig                    `yaml:"bot"`
	LLM          *llmSectionYAML               `yaml:"llm"`
	LLMProviders map[string]*LLMProviderConfig `yaml:"llm_providers"`
	Slack        *SlackConfig                  `yaml:"slack"`
	Tables       *TablesConfig                 `yaml:"tables"`
	History      *HistoryConfig                `yaml:"history"`
}

type llmSectionYAML struct {
	Provider       string `yaml:"provider"`
	MaxDepth       *int   `yaml:"max_depth"`
	RequestTimeout string `yaml:"request_timeout"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
//
// Steps performed:
//  1. Read analyza.yaml from configDir
//  2. Expand environment variables
//  3. Merge defaults for unset values
//  4. Build the provider registry
//  5. Validate
func Initialize(_ context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("Configuration initialized successfully",
		"bot", cfg.Bot.Name,
		"llm_provider", cfg.LLMProvider,
		"llm_providers", len(cfg.LLMProviderRegistry.Names()),
		"max_depth", cfg.Orchestrator.MaxDepth)

	return cfg, nil
}

func load(configDir string) (*Config, error) {
	var raw analyzaYAMLConfig
	if err := loadYAML(configDir, "analyza.yaml", &raw); err != nil {
		return nil, NewLoadError("analyza.yaml", err)
	}

	bot := raw.Bot
	if bot == nil {
		bot = &BotConfig{}
	}
	if err := mergo.Merge(bot, defaultBotConfig()); err != nil {
		return nil, fmt.Errorf("failed to merge bot defaults: %w", err)
	}
	if env := os.Getenv("BOT_NAME"); env != "" {
		bot.Name = env
	}
	if env := os.Getenv("BOT_SOURCE"); env != "" {
		bot.Platform = env
	}

	orch := resolveOrchestratorConfig(raw.LLM)

	slack := raw.Slack
	if slack == nil {
		slack = &SlackConfig{}
	}
	if err := mergo.Merge(slack, defaultSlackConfig()); err != nil {
		return nil, fmt.Errorf("failed to merge slack defaults: %w", err)
	}

	tables := raw.Tables
	if tables == nil {
		tables = &TablesConfig{}
	}
	if tables.DescriptorDir == "" {
		tables.DescriptorDir = getEnvOrDefault("TABLE_DESCRIPTOR", filepath.Join(configDir, "tables"))
	}

	history := raw.History
	if history == nil {
		history = &HistoryConfig{}
	}
	if history.MaxMessages <= 0 {
		history.MaxMessages = 40
	}

	provider := raw.LLM.providerKey()
	if env := os.Getenv("AI_PROVIDER"); env != "" {
		provider = env
	}

	return &Config{
		configDir:           configDir,
		Bot:                 bot,
		Orchestrator:        orch,
		Slack:               slack,
		Tables:              tables,
		History:             history,
		LLMProvider:         provider,
		LLMProviderRegistry: NewLLMProviderRegistry(raw.LLMProviders),
	}, nil
}

func loadYAML(configDir, filename string, target any) error {
	path := filepath.Join(configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return nil
}

func (s *llmSectionYAML) providerKey() string {
	if s == nil {
		return ""
	}
	return s.Provider
}

func resolveOrchestratorConfig(llm *llmSectionYAML) *OrchestratorConfig {
	cfg := &OrchestratorConfig{
		MaxDepth:       5,
		RequestTimeout: 60 * time.Second,
	}
	if llm == nil {
		return cfg
	}
	if llm.MaxDepth != nil && *llm.MaxDepth >= 0 {
		cfg.MaxDepth = *llm.MaxDepth
	}
	if llm.RequestTimeout != "" {
		if d, err := time.ParseDuration(llm.RequestTimeout); err == nil {
			cfg.RequestTimeout = d
		} else {
			slog.Warn("Invalid request_timeout in llm config, using default",
				"value", llm.RequestTimeout,
				"default", cfg.RequestTimeout,
				"error", err)
		}
	}
	return cfg
}

func defaultBotConfig() *BotConfig {
	return &BotConfig{
		Name:             "ANALYZA",
		Platform:         "slack",
		AllowedPlatforms: []string{"slack"},
	}
}

func defaultSlackConfig() *SlackConfig {
	return &SlackConfig{
		TokenEnv:         "BOT_TOKEN",
		SigningSecretEnv: "BOT_SECRET_KEY",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
