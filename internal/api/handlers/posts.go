package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/codedbysoumyajit/Blogspot/internal/feeds"
	"github.com/codedbysoumyajit/Blogspot/internal/models"
	"github.com/codedbysoumyajit/Blogspot/internal/storage"
)

// ListOptions bounds the page size of the public listing. Zero values
// fall back to 5 and 50.
type ListOptions struct {
	DefaultLimit int
	MaxLimit     int
}

type pageResponse struct {
	models.PostPage
	Page int `json:"page"`
}

type postDetail struct {
	models.Post
	ReadingTimeMinutes int `json:"readingTimeMinutes"`
}

type linkedPost struct {
	models.Post
	URL string `json:"url"`
}

// ListPosts handles GET /api/posts. It returns one page of posts, newest
// first, read from the "page" and "limit" query parameters.
func ListPosts(repo storage.PostRepository, opts ListOptions) http.HandlerFunc {
	if opts.DefaultLimit < 1 {
		opts.DefaultLimit = 5
	}
	if opts.MaxLimit < 1 {
		opts.MaxLimit = 50
	}

	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := min(queryInt(r, "limit", opts.DefaultLimit), opts.MaxLimit)

		result, err := repo.PaginatePosts(r.Context(), page, limit)
		if err != nil {
			slog.Error("failed to paginate posts", "page", page, "limit", limit, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list posts")
			return
		}

		writeJSON(w, http.StatusOK, pageResponse{PostPage: *result, Page: page})
	}
}

// GetPost handles GET /api/posts/{id}.
func GetPost(repo storage.PostRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := repo.GetPost(r.Context(), postID(r))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Post not found")
				return
			}
			slog.Error("failed to get post", "id", postID(r), "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get post")
			return
		}

		writeJSON(w, http.StatusOK, postDetail{
			Post:               *post,
			ReadingTimeMinutes: feeds.CalculateReadingTime(post.Content),
		})
	}
}

// LikePost handles POST /api/posts/{id}/like. It increments the like
// counter and returns the updated post.
func LikePost(repo storage.PostRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := repo.LikePost(r.Context(), postID(r))
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Post not found")
				return
			}
			slog.Error("failed to like post", "id", postID(r), "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to like post")
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}

// LatestPosts handles GET /api/latest-posts. It returns the newest count
// posts, each with an absolute url to its page.
func LatestPosts(repo storage.PostRepository, count int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := repo.PaginatePosts(r.Context(), 1, count)
		if err != nil {
			slog.Error("failed to get latest posts", "error", err)
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		if len(result.Posts) == 0 {
			writeMessage(w, http.StatusNotFound, "No posts found")
			return
		}

		base := requestBaseURL(r)
		out := make([]linkedPost, 0, len(result.Posts))
		for _, p := range result.Posts {
			out = append(out, linkedPost{Post: p, URL: feeds.PostURL(base, p.ID)})
		}

		writeJSON(w, http.StatusOK, out)
	}
}
