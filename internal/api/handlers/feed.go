package handlers

import (
	"log/slog"
	"net/http"

	"github.com/codedbysoumyajit/Blogspot/internal/feeds"
	"github.com/codedbysoumyajit/Blogspot/internal/storage"
)

// FeedOptions configures the published RSS feed.
type FeedOptions struct {
	Title       string
	Description string
	// BaseURL overrides the site root derived from the request.
	BaseURL string
	Size    int
}

// Feed handles GET /feed.xml. It renders the newest posts as RSS 2.0.
func Feed(repo storage.PostRepository, opts FeedOptions) http.HandlerFunc {
	if opts.Size < 1 {
		opts.Size = 20
	}

	return func(w http.ResponseWriter, r *http.Request) {
		result, err := repo.PaginatePosts(r.Context(), 1, opts.Size)
		if err != nil {
			slog.Error("failed to load posts for feed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		base := opts.BaseURL
		if base == "" {
			base = requestBaseURL(r)
		}

		data, err := feeds.BuildRSS(feeds.Channel{
			Title:       opts.Title,
			Description: opts.Description,
			BaseURL:     base,
		}, result.Posts)
		if err != nil {
			slog.Error("failed to render feed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
