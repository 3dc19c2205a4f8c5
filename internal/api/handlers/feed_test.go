package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFeed(t *testing.T) {
	repo, posts := seededMemoryStore(t, 4)

	tests := []struct {
		name     string
		opts     FeedOptions
		wantBase string
		wantN    int
	}{
		{name: "base from request", opts: FeedOptions{Title: "Blog", Size: 2}, wantBase: "http://example.com", wantN: 2},
		{name: "configured base", opts: FeedOptions{Title: "Blog", BaseURL: "https://blog.example.com"}, wantBase: "https://blog.example.com", wantN: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Feed(repo, tt.opts).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/feed.xml", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
				t.Errorf("Content-Type = %q", ct)
			}

			body := w.Body.String()
			if n := strings.Count(body, "<item>"); n != tt.wantN {
				t.Errorf("got %d items, want %d", n, tt.wantN)
			}
			newest := tt.wantBase + "/posts/" + posts[3].ID
			if !strings.Contains(body, newest) {
				t.Errorf("feed should link the newest post at %s", newest)
			}
		})
	}
}
