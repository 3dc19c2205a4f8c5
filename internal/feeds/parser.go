package feeds

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/codedbysoumyajit/Blogspot/internal/models"
	"github.com/mmcdole/gofeed"
)

var htmlTagPattern = regexp.MustCompile("<[^>]*>")

// descriptionWords bounds a description derived from a feed body.
const descriptionWords = 60

// Draft is an unsaved post produced by an import. It is returned to the
// admin for editing and is never written to storage directly.
type Draft struct {
	models.PostInput
	SourceURL   string     `json:"sourceUrl,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// parseFeedItems converts up to limit gofeed items into drafts. Items with
// an empty title are skipped.
func parseFeedItems(feed *gofeed.Feed, limit int) []Draft {
	drafts := make([]Draft, 0, min(limit, len(feed.Items)))
	for _, item := range feed.Items {
		if len(drafts) >= limit {
			break
		}
		title := strings.TrimSpace(stripHTML(item.Title))
		if title == "" {
			continue
		}

		description := strings.TrimSpace(stripHTML(item.Description))
		content := strings.TrimSpace(stripHTML(item.Content))
		if content == "" {
			content = description
		}
		if description == "" {
			description = truncateWords(content, descriptionWords)
		}

		d := Draft{SourceURL: item.Link}
		d.Title = title
		d.Description = description
		d.Content = content
		d.Image = itemImage(item)
		d.Author = itemAuthor(feed, item)
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			d.PublishedAt = &t
		}
		drafts = append(drafts, d)
	}
	return drafts
}

// itemImage picks the item image, falling back to the first image
// enclosure.
func itemImage(item *gofeed.Item) string {
	if item.Image != nil && isHTTPURL(item.Image.URL) {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && isHTTPURL(enc.URL) {
			return enc.URL
		}
	}
	return ""
}

func itemAuthor(feed *gofeed.Feed, item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return feed.Title
}

// stripHTML removes HTML tags from s and unescapes HTML entities.
func stripHTML(s string) string {
	clean := htmlTagPattern.ReplaceAllString(s, "")
	return html.UnescapeString(clean)
}
