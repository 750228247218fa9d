package config

import (
	"fmt"
	"log/slog"
)

// validate performs cross-field validation on loaded configuration.
func validate(cfg *Config) error {
	if cfg.Bot.Name == "" {
		return &ValidationError{Component: "bot", Field: "name", Err: ErrMissingRequiredField}
	}

	allowed := false
	for _, p := range cfg.Bot.AllowedPlatforms {
		if p == cfg.Bot.Platform {
			allowed = true
			break
		}
	}
	if !allowed {
		return &ValidationError{
			Component: "bot",
			Field:     "platform",
			Err:       fmt.Errorf("platform %q not in allowed_platforms %v", cfg.Bot.Platform, cfg.Bot.AllowedPlatforms),
		}
	}

	if cfg.LLMProvider == "" {
		return &ValidationError{Component: "llm", Field: "provider", Err: ErrMissingRequiredField}
	}
	provider, err := cfg.LLMProviderRegistry.Get(cfg.LLMProvider)
	if err != nil {
		return &ValidationError{Component: "llm", Field: "provider", Err: err}
	}
	if provider.BaseURL == "" {
		return &ValidationError{Component: "llm_provider", Field: "url", Err: ErrMissingRequiredField}
	}
	if provider.DefaultModel == "" {
		return &ValidationError{Component: "llm_provider", Field: "default_model", Err: ErrMissingRequiredField}
	}
	if !provider.SupportsModel(provider.DefaultModel) {
		slog.Warn("Default model not listed in provider models",
			"provider", cfg.LLMProvider,
			"model", provider.DefaultModel,
			"models", provider.Models)
	}

	if cfg.Orchestrator.MaxDepth < 0 {
		return &ValidationError{Component: "llm", Field: "max_depth", Err: fmt.Errorf("must be >= 0")}
	}

	return nil
}
