package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/codedbysoumyajit/Blogspot/internal/models"
	"github.com/codedbysoumyajit/Blogspot/internal/storage"
)

// AdminListPosts handles GET /api/admin/posts. It returns every post for
// the dashboard, newest first.
func AdminListPosts(repo storage.PostRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := repo.ListPosts(r.Context())
		if err != nil {
			slog.Error("failed to list posts", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list posts")
			return
		}
		writeJSON(w, http.StatusOK, posts)
	}
}

// CreatePost handles POST /api/admin/posts.
func CreatePost(repo storage.PostRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.PostInput
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := in.Validate(); err != nil {
			writeInvalidInput(w, err)
			return
		}

		post, err := repo.CreatePost(r.Context(), in)
		if err != nil {
			slog.Error("failed to create post", "title", in.Title, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to create post")
			return
		}

		slog.Info("post created", "id", post.ID, "title", post.Title)
		writeJSON(w, http.StatusCreated, post)
	}
}

// UpdatePost handles PUT and PATCH /api/admin/posts/{id}. The body is a
// merge patch: only the fields present are changed.
func UpdatePost(repo storage.PostRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := postID(r)

		var patch models.PostPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := patch.Validate(); err != nil {
			writeInvalidInput(w, err)
			return
		}

		post, err := repo.UpdatePost(r.Context(), id, patch)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Post not found")
				return
			}
			slog.Error("failed to update post", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to update post")
			return
		}

		slog.Info("post updated", "id", post.ID)
		writeJSON(w, http.StatusOK, post)
	}
}

// DeletePost handles DELETE /api/admin/posts/{id}. Deleting a missing post
// succeeds.
func DeletePost(repo storage.PostRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := postID(r)

		if err := repo.DeletePost(r.Context(), id); err != nil {
			slog.Error("failed to delete post", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to delete post")
			return
		}

		slog.Info("post deleted", "id", id)
		w.WriteHeader(http.StatusNoContent)
	}
}
