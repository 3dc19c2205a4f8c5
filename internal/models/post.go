package models

import (
	"time"
)

// TimeLayout is the ISO-8601 layout used to persist createdAt. It always
// carries millisecond precision in UTC so that stored values sort
// lexicographically in chronological order.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Post is a single blog article.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	Author      string    `json:"author"`
	Location    string    `json:"location"`
	Likes       int64     `json:"likes"`
}

// PostInput carries the caller-supplied fields of a new post. The id,
// createdAt and likes fields are always assigned by the repository.
type PostInput struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Content     string `json:"content" validate:"notblank"`
	Image       string `json:"image" validate:"required,http_url"`
	Author      string `json:"author"`
	Location    string `json:"location"`
}

// PostPatch is a merge patch for an existing post. Nil fields are left
// untouched.
type PostPatch struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,notblank"`
	Description *string `json:"description,omitempty" validate:"omitempty,notblank"`
	Content     *string `json:"content,omitempty" validate:"omitempty,notblank"`
	Image       *string `json:"image,omitempty" validate:"omitempty,http_url"`
	Author      *string `json:"author,omitempty"`
	Location    *string `json:"location,omitempty"`
}

// IsEmpty reports whether the patch sets no fields.
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Content == nil &&
		p.Image == nil && p.Author == nil && p.Location == nil
}

// Apply merges the patch into post in place.
func (p PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Description != nil {
		post.Description = *p.Description
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Image != nil {
		post.Image = *p.Image
	}
	if p.Author != nil {
		post.Author = *p.Author
	}
	if p.Location != nil {
		post.Location = *p.Location
	}
}

// PostPage is one page of the post listing.
type PostPage struct {
	Posts      []Post `json:"posts"`
	TotalPages int    `json:"totalPages"`
}
