package llm

import (
	"context"
	"testing"
)

func TestNewProvider(t *testing.T) {
	t.Run("ollama default is wrapped", func(t *testing.T) {
		p, err := NewProvider(context.Background(), DefaultConfig(), nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := p.(*RetryProvider); !ok {
			t.Fatalf("expected *RetryProvider, got %T", p)
		}
		if p.ModelID() != "llama3.1" {
			t.Fatalf("ModelID = %q", p.ModelID())
		}
		if _, ok := p.(ModelLister); !ok {
			t.Fatal("wrapped ollama provider should list models")
		}
	})

	t.Run("mock is bare", func(t *testing.T) {
		p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := p.(*MockProvider); !ok {
			t.Fatalf("expected *MockProvider, got %T", p)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		if _, err := NewProvider(context.Background(), Config{Provider: "openai"}, nil, nil); err == nil {
			t.Fatal("expected error for missing key")
		}
	})
}

func TestNewProviderFromEnv(t *testing.T) {
	t.Setenv("STUDYZ_LLM_PROVIDER", "mock")

	p, cfg, err := NewProviderFromEnv(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "mock" || p.ModelID() != "mock" {
		t.Fatalf("provider = %q, model = %q", cfg.Provider, p.ModelID())
	}
}
