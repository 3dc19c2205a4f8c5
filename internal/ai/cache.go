package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SummaryCache keeps recent summaries in memory. Entries are keyed on the
// post id and a hash of the content, so editing a post invalidates its
// summary without explicit eviction. A nil *SummaryCache never caches.
type SummaryCache struct {
	entries *lru.Cache[string, string]
}

// NewSummaryCache creates a cache holding at most size summaries.
func NewSummaryCache(size int) (*SummaryCache, error) {
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating summary cache: %w", err)
	}
	return &SummaryCache{entries: entries}, nil
}

func summaryKey(postID, content string) string {
	sum := sha256.Sum256([]byte(content))
	return postID + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached summary for postID at this content, if any.
func (c *SummaryCache) Get(postID, content string) (string, bool) {
	if c == nil {
		return "", false
	}
	return c.entries.Get(summaryKey(postID, content))
}

// Add stores a summary for postID at this content.
func (c *SummaryCache) Add(postID, content, summary string) {
	if c == nil {
		return
	}
	c.entries.Add(summaryKey(postID, content), summary)
}

// Len reports the number of cached summaries.
func (c *SummaryCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// Summarize returns the cached summary when present, otherwise asks the
// provider and caches the result. cached reports whether the provider
// was skipped.
func (c *SummaryCache) Summarize(ctx context.Context, provider AIProvider, postID, content string) (summary string, cached bool, err error) {
	if s, ok := c.Get(postID, content); ok {
		return s, true, nil
	}

	summary, err = provider.Summarize(ctx, content)
	if err != nil {
		return "", false, err
	}

	c.Add(postID, content, summary)
	return summary, false, nil
}
