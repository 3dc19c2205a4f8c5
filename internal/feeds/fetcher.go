// Package feeds moves posts in and out of the blog as web content: drafts
// imported from RSS/Atom feeds or article pages, and the RSS feed the blog
// publishes.
package feeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

const (
	httpTimeout    = 30 * time.Second
	maxConcurrent  = 5
	rateLimitDelay = 1 * time.Second
	maxWords       = 5000

	// DefaultImportLimit is used when a feed import does not ask for a
	// specific number of items.
	DefaultImportLimit = 10
	// MaxImportLimit caps how many drafts a single feed import returns.
	MaxImportLimit = 50
)

// ErrInvalidURL is returned for import targets that are not absolute
// http(s) URLs.
var ErrInvalidURL = errors.New("feeds: url must be an absolute http(s) URL")

// FeedOptions controls how a feed is turned into drafts.
type FeedOptions struct {
	// Limit is the maximum number of drafts returned, newest items first as
	// ordered by the feed. Zero means DefaultImportLimit.
	Limit int

	// FullContent fetches each item's article page and replaces the feed
	// body with the readable text of the page.
	FullContent bool
}

// Importer fetches feeds and article pages with per-domain rate limiting
// and bounded concurrency.
type Importer struct {
	client      *http.Client
	delay       time.Duration
	rateLimiter map[string]time.Time // per-domain last request time
	mu          sync.Mutex           // protects rateLimiter
}

// NewImporter creates an Importer with a 30-second HTTP timeout and
// browser-like request headers.
func NewImporter() *Importer {
	return &Importer{
		client: &http.Client{
			Timeout: httpTimeout,
			Transport: &userAgentTransport{
				base: http.DefaultTransport,
			},
		},
		delay:       rateLimitDelay,
		rateLimiter: make(map[string]time.Time),
	}
}

// userAgentTransport wraps an http.RoundTripper to inject a custom User-Agent
// header on every request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	setBrowserHeaders(req)
	return t.base.RoundTrip(req)
}

// ImportFeed parses the RSS/Atom feed at feedURL and returns up to
// opts.Limit drafts. With opts.FullContent, article pages are fetched
// concurrently; an item whose page cannot be read keeps its feed text.
func (im *Importer) ImportFeed(ctx context.Context, feedURL string, opts FeedOptions) ([]Draft, error) {
	if err := checkURL(feedURL); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultImportLimit
	}
	limit = min(limit, MaxImportLimit)

	im.waitForRateLimit(extractDomain(feedURL))

	fp := gofeed.NewParser()
	fp.Client = im.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %q: %w", feedURL, err)
	}

	drafts := parseFeedItems(feed, limit)
	slog.Info("parsed feed", "url", feedURL, "items", len(feed.Items), "drafts", len(drafts))

	if !opts.FullContent {
		return drafts, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i := range drafts {
		if drafts[i].SourceURL == "" {
			continue
		}
		g.Go(func() error {
			article, err := im.ImportArticle(ctx, drafts[i].SourceURL)
			if err != nil {
				slog.Warn("keeping feed text for item",
					"url", drafts[i].SourceURL,
					"error", err,
				)
				return nil // one unreadable page should not fail the import
			}
			if article.Content != "" {
				drafts[i].Content = article.Content
			}
			if drafts[i].Image == "" {
				drafts[i].Image = article.Image
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching articles: %w", err)
	}

	return drafts, nil
}

// ImportArticle extracts a draft from the article page at articleURL.
func (im *Importer) ImportArticle(ctx context.Context, articleURL string) (*Draft, error) {
	if err := checkURL(articleURL); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	im.waitForRateLimit(extractDomain(articleURL))

	draft, err := extractDraft(articleURL, httpTimeout)
	if err != nil {
		return nil, fmt.Errorf("extracting article from %q: %w", articleURL, err)
	}
	return draft, nil
}

// waitForRateLimit enforces a minimum delay between requests to the same
// domain. It blocks until the delay has elapsed.
func (im *Importer) waitForRateLimit(domain string) {
	im.mu.Lock()
	lastReq, ok := im.rateLimiter[domain]
	if ok {
		elapsed := time.Since(lastReq)
		if elapsed < im.delay {
			im.mu.Unlock()
			time.Sleep(im.delay - elapsed)
			im.mu.Lock()
		}
	}
	im.rateLimiter[domain] = time.Now()
	im.mu.Unlock()
}

// checkURL rejects anything but absolute http(s) URLs.
func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// extractDomain parses a URL and returns its hostname. If parsing fails, it
// returns the raw URL as a fallback key.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
