package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Compile-time interface check.
var _ AIProvider = (*OpenAIProvider)(nil)

// OpenAIProvider implements AIProvider using the OpenAI Chat Completions API.
// Any server speaking the same protocol can be used by setting a base URL.
type OpenAIProvider struct {
	model  string
	client *openai.Client
}

// NewOpenAIProvider creates an OpenAIProvider with a 60-second timeout
// HTTP client. baseURL, when set, must include the version prefix, for
// example "http://localhost:11434/v1".
func NewOpenAIProvider(apiKey, model, baseURL string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	return &OpenAIProvider{
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

// GeneratePost drafts a post about topic using the Chat Completions API.
func (p *OpenAIProvider) GeneratePost(ctx context.Context, topic string) (*GeneratedPost, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, ErrEmptyInput
	}

	systemPrompt, userPrompt := GeneratePostPrompt(topic)

	text, err := p.complete(ctx, systemPrompt, userPrompt, generateMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("openai generate: %w", err)
	}

	post, err := parseGeneratedPost(text)
	if err != nil {
		return nil, fmt.Errorf("openai generate: %w", err)
	}
	return post, nil
}

// Summarize generates a 3-5 sentence summary of content using the Chat
// Completions API.
func (p *OpenAIProvider) Summarize(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyInput
	}

	systemPrompt, userPrompt := SummarizePrompt(content)

	text, err := p.complete(ctx, systemPrompt, userPrompt, summarizeMaxTokens)
	if err != nil {
		return "", fmt.Errorf("openai summarize: %w", err)
	}

	summary, err := cleanSummary(text)
	if err != nil {
		return "", fmt.Errorf("openai summarize: %w", err)
	}
	return summary, nil
}

// complete sends a single system+user exchange and returns the content of
// the first choice.
func (p *OpenAIProvider) complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	slog.Debug("calling OpenAI API", "model", p.model, "max_tokens", maxTokens)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("sending request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response: no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
