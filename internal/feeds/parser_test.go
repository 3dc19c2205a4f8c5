package feeds

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

func TestParseFeedItems(t *testing.T) {
	tests := []struct {
		name      string
		items     []*gofeed.Item
		limit     int
		wantCount int
	}{
		{
			name: "all items under limit",
			items: []*gofeed.Item{
				{Title: "One", Link: "https://example.com/1"},
				{Title: "Two", Link: "https://example.com/2"},
			},
			limit:     10,
			wantCount: 2,
		},
		{
			name: "limit truncates",
			items: []*gofeed.Item{
				{Title: "One"}, {Title: "Two"}, {Title: "Three"},
			},
			limit:     2,
			wantCount: 2,
		},
		{
			name: "empty title is skipped and does not count",
			items: []*gofeed.Item{
				{Title: ""}, {Title: "<b></b>"}, {Title: "Kept"},
			},
			limit:     1,
			wantCount: 1,
		},
		{
			name:      "no items",
			items:     nil,
			limit:     5,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := &gofeed.Feed{Items: tt.items}
			drafts := parseFeedItems(feed, tt.limit)

			if got := len(drafts); got != tt.wantCount {
				t.Errorf("got %d drafts, want %d", got, tt.wantCount)
			}
			if drafts == nil {
				t.Error("drafts should be a non-nil slice")
			}
		})
	}
}

func TestParseFeedItems_FieldMapping(t *testing.T) {
	pubTime := time.Date(2025, 3, 1, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	feed := &gofeed.Feed{
		Title: "Engineering Blog",
		Items: []*gofeed.Item{
			{
				Title:           "Test Article",
				Link:            "https://example.com/article",
				Description:     "A <b>bold</b> description",
				Content:         "<p>Full &amp; rich body</p>",
				PublishedParsed: &pubTime,
				Authors:         []*gofeed.Person{{Name: "Ada"}},
				Enclosures: []*gofeed.Enclosure{
					{URL: "https://example.com/a.mp3", Type: "audio/mpeg"},
					{URL: "https://example.com/a.png", Type: "image/png"},
				},
			},
		},
	}

	drafts := parseFeedItems(feed, 10)
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}
	d := drafts[0]

	if d.Title != "Test Article" {
		t.Errorf("Title = %q, want %q", d.Title, "Test Article")
	}
	if d.SourceURL != "https://example.com/article" {
		t.Errorf("SourceURL = %q", d.SourceURL)
	}
	if d.Description != "A bold description" {
		t.Errorf("Description = %q, want %q", d.Description, "A bold description")
	}
	if d.Content != "Full & rich body" {
		t.Errorf("Content = %q, want %q", d.Content, "Full & rich body")
	}
	if d.Image != "https://example.com/a.png" {
		t.Errorf("Image = %q, want image enclosure", d.Image)
	}
	if d.Author != "Ada" {
		t.Errorf("Author = %q, want %q", d.Author, "Ada")
	}
	if d.PublishedAt == nil || !d.PublishedAt.Equal(pubTime) || d.PublishedAt.Location() != time.UTC {
		t.Errorf("PublishedAt = %v, want %v in UTC", d.PublishedAt, pubTime)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("draft should be a valid post input: %v", err)
	}
}

func TestParseFeedItems_Fallbacks(t *testing.T) {
	feed := &gofeed.Feed{
		Title: "Fallback Feed",
		Items: []*gofeed.Item{
			{Title: "Body only", Content: "Only content here"},
			{Title: "Summary only", Description: "Only a summary", Image: &gofeed.Image{URL: "https://example.com/i.jpg"}},
			{Title: "Bad image", Image: &gofeed.Image{URL: "javascript:alert(1)"}},
		},
	}

	drafts := parseFeedItems(feed, 10)

	if drafts[0].Description != "Only content here" {
		t.Errorf("Description should fall back to content, got %q", drafts[0].Description)
	}
	if drafts[0].Author != "Fallback Feed" {
		t.Errorf("Author should fall back to feed title, got %q", drafts[0].Author)
	}
	if drafts[1].Content != "Only a summary" {
		t.Errorf("Content should fall back to description, got %q", drafts[1].Content)
	}
	if drafts[1].Image != "https://example.com/i.jpg" {
		t.Errorf("Image = %q", drafts[1].Image)
	}
	if drafts[2].Image != "" {
		t.Errorf("non-http image should be dropped, got %q", drafts[2].Image)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "removes simple tags", input: "<p>Hello <b>world</b></p>", want: "Hello world"},
		{name: "unescapes HTML entities", input: "Tom &amp; Jerry &lt;3", want: "Tom & Jerry <3"},
		{name: "plain text unchanged", input: "no tags here", want: "no tags here"},
		{name: "empty string", input: "", want: ""},
		{name: "self-closing tags", input: "line one<br/>line two", want: "line oneline two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripHTML(tt.input)
			if got != tt.want {
				t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
