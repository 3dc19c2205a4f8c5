package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/codedbysoumyajit/Blogspot/internal/feeds"
)

// Importer turns remote web content into post drafts.
type Importer interface {
	ImportArticle(ctx context.Context, articleURL string) (*feeds.Draft, error)
	ImportFeed(ctx context.Context, feedURL string, opts feeds.FeedOptions) ([]feeds.Draft, error)
}

// ImportArticle handles POST /api/admin/import. It extracts a draft from
// the article at {"url": "..."}; nothing is saved.
func ImportArticle(im Importer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			URL string `json:"url"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		draft, err := im.ImportArticle(r.Context(), body.URL)
		if err != nil {
			if errors.Is(err, feeds.ErrInvalidURL) {
				writeError(w, http.StatusBadRequest, "url must be an absolute http(s) URL")
				return
			}
			slog.Warn("failed to import article", "url", body.URL, "error", err)
			writeError(w, http.StatusBadGateway, "Failed to import article")
			return
		}

		writeJSON(w, http.StatusOK, draft)
	}
}

// ImportFeed handles POST /api/admin/import/feed. It returns drafts for the
// newest items of the RSS/Atom feed at {"url": "..."}.
func ImportFeed(im Importer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			URL         string `json:"url"`
			Limit       int    `json:"limit"`
			FullContent bool   `json:"fullContent"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		drafts, err := im.ImportFeed(r.Context(), body.URL, feeds.FeedOptions{
			Limit:       body.Limit,
			FullContent: body.FullContent,
		})
		if err != nil {
			if errors.Is(err, feeds.ErrInvalidURL) {
				writeError(w, http.StatusBadRequest, "url must be an absolute http(s) URL")
				return
			}
			slog.Warn("failed to import feed", "url", body.URL, "error", err)
			writeError(w, http.StatusBadGateway, "Failed to import feed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"drafts": drafts})
	}
}
