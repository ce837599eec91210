package llm

import (
	"context"
	"fmt"
	"strings"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// ollamaAPIKey is sent as the bearer token. Ollama ignores it, but the
// OpenAI client always sets the header.
const ollamaAPIKey = "ollama"

// OllamaProvider talks to a local Ollama server through its
// OpenAI-compatible API. Structured requests use JSON mode and are then
// validated against the schema like every other provider.
type OllamaProvider struct {
	*OpenAIProvider
	baseURL string
}

// NewOllamaProvider creates a provider for the Ollama server at
// cfg.BaseURL (for example http://localhost:11434/v1).
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ollama base URL is required")
	}

	inner, err := newOpenAIProviderRaw(OpenAIConfig{
		APIKey:  ollamaAPIKey,
		Model:   cfg.Model,
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
	})
	if err != nil {
		return nil, err
	}
	inner.jsonMode = true

	return &OllamaProvider{OpenAIProvider: inner, baseURL: cfg.BaseURL}, nil
}

// BaseURL returns the endpoint this provider talks to.
func (p *OllamaProvider) BaseURL() string {
	return p.baseURL
}

// ListModels returns the locally pulled models.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	models, err := p.OpenAIProvider.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("ollama at %s: %w", p.baseURL, err)
	}
	return models, nil
}

// HasModel reports whether model appears in models. Ollama tags pulled
// models ("llama3.1:latest"), so an untagged name matches its :latest tag.
func HasModel(models []string, model string) bool {
	for _, m := range models {
		if m == model {
			return true
		}
		if !strings.Contains(model, ":") && m == model+":latest" {
			return true
		}
	}
	return false
}

// OpenRouterProvider routes requests through OpenRouter. Model IDs are
// passed through verbatim ("vendor/model").
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenRouterBaseURL
	}

	inner, err := newOpenAIProviderRaw(OpenAIConfig(cfg))
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
