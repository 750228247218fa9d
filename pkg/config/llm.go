package config

import (
	"fmt"
	"os"
)

// Provider keys with wire-format quirks known to the llm package.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderXAI    = "xai"
)

// LLMProviderRegistry stores provider configurations in memory. Built once at
// startup and read-only thereafter.
type LLMProviderRegistry struct {
	providers map[string]*LLMProviderConfig
}

// NewLLMProviderRegistry creates a registry from the parsed provider map.
func NewLLMProviderRegistry(providers map[string]*LLMProviderConfig) *LLMProviderRegistry {
	copied := make(map[string]*LLMProviderConfig, len(providers))
	for k, v := range providers {
		copied[k] = v
	}
	return &LLMProviderRegistry{providers: copied}
}

// Get retrieves a provider configuration by key.
func (r *LLMProviderRegistry) Get(name string) (*LLMProviderConfig, error) {
	provider, exists := r.providers[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrLLMProviderNotFound, name)
	}
	return provider, nil
}

// Has checks whether a provider key is configured.
func (r *LLMProviderRegistry) Has(name string) bool {
	_, exists := r.providers[name]
	return exists
}

// Names returns all configured provider keys.
func (r *LLMProviderRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// APIKey resolves the provider's API key from its configured environment
// variable, falling back to AI_KEY.
func (p *LLMProviderConfig) APIKey() string {
	if p.APIKeyEnv != "" {
		if key := os.Getenv(p.APIKeyEnv); key != "" {
			return key
		}
	}
	return os.Getenv("AI_KEY")
}

// SupportsModel reports whether the model is listed for this provider.
func (p *LLMProviderConfig) SupportsModel(model string) bool {
	for _, m := range p.Models {
		if m == model {
			return true
		}
	}
	return false
}
