package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/codedbysoumyajit/Blogspot/internal/ai"
	"github.com/codedbysoumyajit/Blogspot/internal/storage"
)

const aiUnavailable = "AI provider not configured"

// GeneratePost handles POST /api/admin/generate. It drafts a post from
// {"topic": "..."} without saving it.
func GeneratePost(provider ai.AIProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			writeError(w, http.StatusServiceUnavailable, aiUnavailable)
			return
		}

		var body struct {
			Topic string `json:"topic"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(body.Topic) == "" {
			writeError(w, http.StatusBadRequest, "topic is required")
			return
		}

		post, err := provider.GeneratePost(r.Context(), body.Topic)
		if err != nil {
			if errors.Is(err, ai.ErrEmptyInput) {
				writeError(w, http.StatusBadRequest, "topic is required")
				return
			}
			slog.Error("failed to generate post", "topic", body.Topic, "error", err)
			writeError(w, http.StatusBadGateway, "Failed to generate post")
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}

// SummarizePost handles POST /api/posts/{id}/summary. Summaries are served
// from cache while the post content is unchanged.
func SummarizePost(repo storage.PostRepository, provider ai.AIProvider, cache *ai.SummaryCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			writeError(w, http.StatusServiceUnavailable, aiUnavailable)
			return
		}

		ctx := r.Context()
		id := postID(r)

		post, err := repo.GetPost(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Post not found")
				return
			}
			slog.Error("failed to get post for summary", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get post")
			return
		}

		summary, cached, err := cache.Summarize(ctx, provider, post.ID, post.Content)
		if err != nil {
			if errors.Is(err, ai.ErrEmptyInput) {
				writeError(w, http.StatusBadRequest, "Post has no content to summarize")
				return
			}
			slog.Error("failed to summarize post", "id", id, "error", err)
			writeError(w, http.StatusBadGateway, "Failed to summarize post")
			return
		}

		slog.Debug("post summarized", "id", id, "cached", cached)
		writeJSON(w, http.StatusOK, map[string]any{
			"summary": summary,
			"cached":  cached,
		})
	}
}
