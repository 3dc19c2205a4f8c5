package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codedbysoumyajit/Blogspot/internal/ai"
)

func TestGeneratePost(t *testing.T) {
	generated := &ai.GeneratedPost{Title: "T", Description: "D.", Content: "C"}

	tests := []struct {
		name     string
		provider ai.AIProvider
		body     any
		wantCode int
	}{
		{name: "not configured", provider: nil, body: map[string]string{"topic": "go"}, wantCode: http.StatusServiceUnavailable},
		{name: "blank topic", provider: &fakeProvider{post: generated}, body: map[string]string{"topic": "  "}, wantCode: http.StatusBadRequest},
		{name: "malformed JSON", provider: &fakeProvider{post: generated}, body: `{`, wantCode: http.StatusBadRequest},
		{name: "provider failure", provider: &fakeProvider{err: errUpstream}, body: map[string]string{"topic": "go"}, wantCode: http.StatusBadGateway},
		{name: "success", provider: &fakeProvider{post: generated}, body: map[string]string{"topic": "go"}, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			GeneratePost(tt.provider).ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/admin/generate", tt.body))

			if w.Code != tt.wantCode {
				t.Fatalf("got status %d, want %d; body: %s", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				var got ai.GeneratedPost
				decodeBody(t, w, &got)
				if got != *generated {
					t.Errorf("got %+v, want %+v", got, *generated)
				}
			}
		})
	}
}

func TestSummarizePost(t *testing.T) {
	repo, posts := seededMemoryStore(t, 1)
	cache, err := ai.NewSummaryCache(4)
	if err != nil {
		t.Fatal(err)
	}
	provider := &fakeProvider{summary: "Short summary."}
	handler := SummarizePost(repo, provider, cache)

	for i, wantCached := range []bool{false, true} {
		r := withURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "id", posts[0].ID)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("call %d: got status %d, want %d", i, w.Code, http.StatusOK)
		}
		var got struct {
			Summary string `json:"summary"`
			Cached  bool   `json:"cached"`
		}
		decodeBody(t, w, &got)
		if got.Summary != "Short summary." || got.Cached != wantCached {
			t.Errorf("call %d: got %+v, want cached=%v", i, got, wantCached)
		}
	}

	if provider.summarizeCalls != 1 {
		t.Errorf("provider called %d times, want 1", provider.summarizeCalls)
	}
}

func TestSummarizePost_Errors(t *testing.T) {
	repo, posts := seededMemoryStore(t, 1)

	tests := []struct {
		name     string
		provider ai.AIProvider
		id       string
		wantCode int
	}{
		{name: "not configured", provider: nil, id: posts[0].ID, wantCode: http.StatusServiceUnavailable},
		{name: "missing post", provider: &fakeProvider{summary: "s"}, id: "ffffffffffffffffffffffff", wantCode: http.StatusNotFound},
		{name: "malformed id", provider: &fakeProvider{summary: "s"}, id: "xyz", wantCode: http.StatusNotFound},
		{name: "provider failure", provider: &fakeProvider{err: fmt.Errorf("wrapped: %w", errUpstream)}, id: posts[0].ID, wantCode: http.StatusBadGateway},
		{name: "empty input", provider: &fakeProvider{err: ai.ErrEmptyInput}, id: posts[0].ID, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := withURLParam(httptest.NewRequest(http.MethodPost, "/", nil), "id", tt.id)
			w := httptest.NewRecorder()

			// A nil cache always calls the provider.
			SummarizePost(repo, tt.provider, nil).ServeHTTP(w, r)

			if w.Code != tt.wantCode {
				t.Errorf("got status %d, want %d; body: %s", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}
