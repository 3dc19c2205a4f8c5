package feeds

import (
	"fmt"
	"strings"

	"github.com/codedbysoumyajit/Blogspot/internal/models"
	feedgen "github.com/gorilla/feeds"
)

// Channel describes the blog itself in the published feed.
type Channel struct {
	Title       string
	Description string
	// BaseURL is the absolute site root, for example "https://blog.example.com".
	BaseURL string
}

// PostURL returns the absolute URL of a post page.
func PostURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/posts/" + id
}

// BuildRSS renders posts as an RSS 2.0 document. Posts are written in the
// order given; callers pass them newest first.
func BuildRSS(ch Channel, posts []models.Post) ([]byte, error) {
	feed := &feedgen.Feed{
		Title:       ch.Title,
		Link:        &feedgen.Link{Href: strings.TrimRight(ch.BaseURL, "/") + "/"},
		Description: ch.Description,
		Items:       make([]*feedgen.Item, 0, len(posts)),
	}
	if len(posts) > 0 {
		feed.Updated = posts[0].CreatedAt.UTC()
	}

	for _, p := range posts {
		link := PostURL(ch.BaseURL, p.ID)
		item := &feedgen.Item{
			Id:          link,
			Title:       p.Title,
			Link:        &feedgen.Link{Href: link},
			Description: p.Description,
			Created:     p.CreatedAt.UTC(),
		}
		if p.Author != "" {
			item.Author = &feedgen.Author{Name: p.Author}
		}
		if p.Image != "" {
			// The length of a remote image is unknown; RSS allows 0.
			item.Enclosure = &feedgen.Enclosure{Url: p.Image, Type: imageType(p.Image), Length: "0"}
		}
		feed.Items = append(feed.Items, item)
	}

	doc, err := feed.ToRss()
	if err != nil {
		return nil, fmt.Errorf("encoding rss: %w", err)
	}
	return []byte(doc), nil
}

// imageType guesses an enclosure MIME type from the URL extension.
func imageType(u string) string {
	path := strings.ToLower(u)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	switch {
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".gif"):
		return "image/gif"
	case strings.HasSuffix(path, ".webp"):
		return "image/webp"
	case strings.HasSuffix(path, ".svg"):
		return "image/svg+xml"
	default:
		return "image/jpeg"
	}
}
