package storage

import (
	"context"
	"fmt"
	"math"

	"github.com/codedbysoumyajit/Blogspot/internal/models"
	"github.com/codedbysoumyajit/Blogspot/internal/postid"
)

// PostRepository is the full set of post operations. Every backend
// (SQLite, MongoDB, in-memory) implements it with identical semantics.
type PostRepository interface {
	// ListPosts returns every post, newest first. Posts with equal
	// createdAt values keep their insertion order.
	ListPosts(ctx context.Context) ([]models.Post, error)

	// PaginatePosts returns one page of the ListPosts ordering together with
	// the total page count.
	PaginatePosts(ctx context.Context, page, limit int) (*models.PostPage, error)

	// GetPost returns the post with the given id, or ErrNotFound.
	GetPost(ctx context.Context, id string) (*models.Post, error)

	// CreatePost assigns an id, createdAt and zero likes, stores the post
	// and returns the stored record.
	CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error)

	// UpdatePost merges the patch into the post and returns the result, or
	// ErrNotFound.
	UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)

	// LikePost atomically increments the like counter and returns the
	// updated post, or ErrNotFound.
	LikePost(ctx context.Context, id string) (*models.Post, error)

	// DeletePost removes the post. Unknown ids are not an error.
	DeletePost(ctx context.Context, id string) error
}

// Compile-time interface checks.
var (
	_ PostRepository = (*Store)(nil)
	_ PostRepository = (*MemoryStore)(nil)
	_ PostRepository = (*MongoStore)(nil)
)

// TotalPages returns ceil(count / limit). It is 0 for an empty collection.
func TotalPages(count int64, limit int) int {
	if count <= 0 || limit < 1 {
		return 0
	}
	l := int64(limit)
	return int((count + l - 1) / l)
}

// checkPage rejects page requests outside the page >= 1, limit >= 1 domain.
func checkPage(page, limit int) error {
	if page < 1 || limit < 1 {
		return fmt.Errorf("%w: page=%d limit=%d", ErrInvalidPage, page, limit)
	}
	return nil
}

// pageOffset returns the number of posts that precede the given page. ok is
// false when that number overflows an int, which places the page past the
// end of any collection.
func pageOffset(page, limit int) (offset int, ok bool) {
	if page-1 > math.MaxInt/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

// lookupID parses a caller-supplied id. A malformed id is reported as
// ErrNotFound so callers cannot tell it apart from a missing post.
func lookupID(raw string) (postid.ID, error) {
	id, err := postid.Parse(raw)
	if err != nil {
		return id, ErrNotFound
	}
	return id, nil
}
