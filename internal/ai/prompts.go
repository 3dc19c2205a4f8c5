package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

const generatePostSystemPrompt = `You are an expert content creator specializing in writing engaging and informative blog posts. Generate a complete blog post based on the provided topic. The post should be well-written, structured, and ready to be published.

Return ONLY valid JSON: an object with exactly these string fields:
- "title": a compelling and SEO-friendly title.
- "description": a short, engaging description of 2-3 sentences that can be used as a meta description or a post summary.
- "content": the full body of the post formatted in Markdown, using headings, paragraphs, lists and other Markdown elements to make it readable.`

const summarizeSystemPrompt = `You are an expert at summarizing technical articles. Create a concise summary of the blog post content you are given. The summary must be between 3 and 5 sentences and capture the main points of the article. Do NOT include any prefix like "Summary:" and start directly with the first sentence.`

// GeneratePostPrompt builds the system and user prompts for drafting a post
// about topic.
func GeneratePostPrompt(topic string) (systemPrompt string, userPrompt string) {
	return generatePostSystemPrompt, "Topic: " + strings.TrimSpace(topic)
}

// SummarizePrompt builds the system and user prompts for summarizing a post
// body.
func SummarizePrompt(content string) (systemPrompt string, userPrompt string) {
	var b strings.Builder
	b.WriteString("Content to summarize:\n")
	b.WriteString(content)
	return summarizeSystemPrompt, b.String()
}

// extractJSON strips markdown code fences from a string that may contain
// JSON wrapped in ```json ... ``` or ``` ... ``` blocks. This handles the
// common case where LLMs return JSON inside code fences.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	for _, fence := range []string{"```json", "```"} {
		if after, found := strings.CutPrefix(s, fence); found {
			if idx := strings.LastIndex(after, "```"); idx >= 0 {
				after = after[:idx]
			}
			return strings.TrimSpace(after)
		}
	}

	return s
}

// parseGeneratedPost decodes model output into a GeneratedPost. Every field
// must be present and non-blank.
func parseGeneratedPost(text string) (*GeneratedPost, error) {
	var post GeneratedPost
	if err := json.Unmarshal([]byte(extractJSON(text)), &post); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	post.Title = strings.TrimSpace(post.Title)
	post.Description = strings.TrimSpace(post.Description)
	post.Content = strings.TrimSpace(post.Content)

	var missing []string
	if post.Title == "" {
		missing = append(missing, "title")
	}
	if post.Description == "" {
		missing = append(missing, "description")
	}
	if post.Content == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedResponse, strings.Join(missing, ", "))
	}

	return &post, nil
}

// cleanSummary trims whitespace and rejects an empty completion.
func cleanSummary(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty summary", ErrMalformedResponse)
	}
	return text, nil
}
