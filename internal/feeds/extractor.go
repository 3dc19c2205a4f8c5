package feeds

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// setBrowserHeaders sets browser-like request headers so sites that check
// Accept or User-Agent don't reject the request with 406.
func setBrowserHeaders(r *http.Request) {
	r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	r.Header.Set("Accept-Language", "en-US,en;q=0.9")
	r.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Blogspot/1.0; +https://github.com/codedbysoumyajit/Blogspot)")
}

// extractDraft fetches the web page at pageURL and turns its readable
// content into a draft.
func extractDraft(pageURL string, timeout time.Duration) (*Draft, error) {
	article, err := readability.FromURL(pageURL, timeout, setBrowserHeaders)
	if err != nil {
		return nil, fmt.Errorf("readability extraction: %w", err)
	}

	d := &Draft{SourceURL: pageURL, PublishedAt: article.PublishedTime}
	d.Title = strings.TrimSpace(article.Title)
	d.Description = strings.TrimSpace(article.Excerpt)
	d.Content = truncateWords(strings.TrimSpace(article.TextContent), maxWords)
	if isHTTPURL(article.Image) {
		d.Image = article.Image
	}
	d.Author = strings.TrimSpace(article.Byline)
	if d.Author == "" {
		d.Author = strings.TrimSpace(article.SiteName)
	}
	return d, nil
}

// truncateWords returns the first maxWords whitespace-delimited words from s.
// If s contains fewer than maxWords words, it is returned unchanged.
func truncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ")
}

func isHTTPURL(s string) bool {
	return checkURL(s) == nil
}
