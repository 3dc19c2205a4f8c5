package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/codedbysoumyajit/Blogspot/internal/ai"
	"github.com/codedbysoumyajit/Blogspot/internal/feeds"
	"github.com/codedbysoumyajit/Blogspot/internal/models"
	"github.com/codedbysoumyajit/Blogspot/internal/postid"
	"github.com/codedbysoumyajit/Blogspot/internal/storage"
	"github.com/go-chi/chi/v5"
)

// newTestStore creates an in-memory SQLite store with migrations applied. It
// registers a cleanup function to close the database when the test completes.
func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	db, err := storage.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	return storage.NewStore(db)
}

// seededMemoryStore returns a MemoryStore holding n posts titled "post-1"
// (oldest) to "post-n" (newest), one hour apart.
func seededMemoryStore(t *testing.T, n int) (*storage.MemoryStore, []models.Post) {
	t.Helper()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := make([]models.Post, n)
	for i := range n {
		posts[i] = models.Post{
			ID:          postid.String(postid.New()),
			Title:       "post-" + strconv.Itoa(i+1),
			Description: "description",
			Content:     "some content words",
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
	}
	return storage.NewMemoryStore(posts...), posts
}

// withURLParam attaches a chi route context carrying a single URL param.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request with v encoded as the JSON body.
func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	var body bytes.Buffer
	if s, ok := v.(string); ok {
		body.WriteString(s)
	} else if v != nil {
		if err := json.NewEncoder(&body).Encode(v); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &body)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// decodeBody decodes the recorder body into v.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response body %q: %v", w.Body.String(), err)
	}
}

// fakeProvider is a scripted ai.AIProvider.
type fakeProvider struct {
	post           *ai.GeneratedPost
	summary        string
	err            error
	summarizeCalls int
}

func (f *fakeProvider) GeneratePost(_ context.Context, topic string) (*ai.GeneratedPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	if strings.TrimSpace(topic) == "" {
		return nil, ai.ErrEmptyInput
	}
	return f.post, nil
}

func (f *fakeProvider) Summarize(_ context.Context, content string) (string, error) {
	f.summarizeCalls++
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

// fakeSessions accepts a single credential and tracks login state in
// memory.
type fakeSessions struct {
	admin    bool
	loginErr error
}

func (f *fakeSessions) Authenticate(email, password string) bool {
	return email == "admin@example.com" && password == "pw"
}

func (f *fakeSessions) Login(w http.ResponseWriter, r *http.Request) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.admin = true
	return nil
}

func (f *fakeSessions) Logout(w http.ResponseWriter, r *http.Request) error {
	f.admin = false
	return nil
}

func (f *fakeSessions) IsAdmin(*http.Request) bool { return f.admin }

// fakeImporter returns canned drafts for any valid URL.
type fakeImporter struct {
	err      error
	lastOpts feeds.FeedOptions
}

func (f *fakeImporter) ImportArticle(_ context.Context, u string) (*feeds.Draft, error) {
	if !strings.HasPrefix(u, "http") {
		return nil, feeds.ErrInvalidURL
	}
	if f.err != nil {
		return nil, f.err
	}
	d := &feeds.Draft{SourceURL: u}
	d.Title = "Imported"
	d.Content = "Body"
	return d, nil
}

func (f *fakeImporter) ImportFeed(_ context.Context, u string, opts feeds.FeedOptions) ([]feeds.Draft, error) {
	f.lastOpts = opts
	if !strings.HasPrefix(u, "http") {
		return nil, feeds.ErrInvalidURL
	}
	if f.err != nil {
		return nil, f.err
	}
	d := feeds.Draft{SourceURL: u + "/1"}
	d.Title = "From feed"
	return []feeds.Draft{d}, nil
}

var errUpstream = errors.New("upstream failure")
