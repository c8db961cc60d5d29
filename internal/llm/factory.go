package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a new oracle provider based on configuration.
// The provider is handed to the extraction adapter as an explicit
// dependency; there is no package-level client state.
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}
