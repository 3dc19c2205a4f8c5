package ai

// ProviderConfig holds the configuration needed to create an AI provider.
type ProviderConfig struct {
	Provider string // "anthropic" | "openai"
	APIKey   string
	Model    string
	BaseURL  string // optional; empty uses the vendor endpoint
}

// GeneratedPost is the draft returned by GeneratePost.
type GeneratedPost struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}
