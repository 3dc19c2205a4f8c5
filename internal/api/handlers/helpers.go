package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/codedbysoumyajit/Blogspot/internal/models"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// writeJSON encodes v as JSON and writes it to the response with the given
// HTTP status code. Content-Type is always set to application/json.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// At this point headers are already sent; log but cannot change status.
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// writeError writes a JSON error response with the given HTTP status code.
// The response body is {"error": "message"}.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// writeMessage writes a {"message": "..."} body, the shape used by the
// public latest-posts endpoint.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeValidationError answers 400 with the failing fields when err is a
// *models.ValidationError. It reports whether it wrote a response.
func writeValidationError(w http.ResponseWriter, err error) bool {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "Validation failed",
		"fields": verr.Fields,
	})
	return true
}

// writeInvalidInput answers 400 for a payload that failed validation,
// listing the fields when err carries them.
func writeInvalidInput(w http.ResponseWriter, err error) {
	if !writeValidationError(w, err) {
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// decodeJSON decodes a size-limited JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// postID returns the raw {id} URL parameter. Validation is left to the
// repository, which treats malformed ids as missing.
func postID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// queryInt reads a positive integer query parameter. Missing, malformed or
// non-positive values yield fallback.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// requestBaseURL derives the public site root from the request. The scheme
// comes from X-Forwarded-Proto when a proxy sets it.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host
}
