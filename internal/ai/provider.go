package ai

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a topic or post body to send is blank.
	ErrEmptyInput = errors.New("ai: empty input")

	// ErrNotConfigured is returned by NewProvider when no API key is set.
	ErrNotConfigured = errors.New("ai: provider not configured")

	// ErrMalformedResponse is returned when the model output cannot be
	// turned into the requested shape.
	ErrMalformedResponse = errors.New("ai: malformed model response")
)

// AIProvider is the interface that all LLM providers must implement.
type AIProvider interface {
	// GeneratePost drafts a complete blog post about the given topic.
	GeneratePost(ctx context.Context, topic string) (*GeneratedPost, error)

	// Summarize condenses a post body into a short paragraph.
	Summarize(ctx context.Context, content string) (string, error)
}

// NewProvider creates the appropriate provider based on config.
func NewProvider(cfg ProviderConfig) (AIProvider, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}
