package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/codedbysoumyajit/Blogspot/internal/models"
	"github.com/codedbysoumyajit/Blogspot/internal/postid"
)

// MemoryStore is an in-process PostRepository. Each instance owns its own
// posts; nothing is shared between instances. It is meant for prototyping
// and tests, and its contents are lost when the process exits.
type MemoryStore struct {
	mu    sync.RWMutex
	posts []models.Post // insertion order
	now   func() time.Time
}

// NewMemoryStore creates an empty MemoryStore, optionally seeded with posts.
// Seed posts keep their ids, timestamps and likes.
func NewMemoryStore(seed ...models.Post) *MemoryStore {
	posts := make([]models.Post, len(seed))
	copy(posts, seed)
	return &MemoryStore{posts: posts, now: time.Now}
}

// ListPosts returns every post, newest first.
func (m *MemoryStore) ListPosts(_ context.Context) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted(), nil
}

// PaginatePosts slices the sorted listing.
func (m *MemoryStore) PaginatePosts(_ context.Context, page, limit int) (*models.PostPage, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.sorted()
	start, ok := pageOffset(page, limit)
	posts := []models.Post{}
	if ok && start >= 0 && start < len(all) {
		end := min(start+limit, len(all))
		posts = all[start:end]
	}
	return &models.PostPage{Posts: posts, TotalPages: TotalPages(int64(len(all)), limit)}, nil
}

// GetPost returns a copy of the post with the given id.
func (m *MemoryStore) GetPost(_ context.Context, id string) (*models.Post, error) {
	if _, err := lookupID(id); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	post := m.posts[i]
	return &post, nil
}

// CreatePost appends a new post.
func (m *MemoryStore) CreatePost(_ context.Context, in models.PostInput) (*models.Post, error) {
	post := models.Post{
		ID:          postid.String(postid.New()),
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Image:       in.Image,
		CreatedAt:   createdAtNow(m.now),
		Author:      in.Author,
		Location:    in.Location,
	}

	m.mu.Lock()
	m.posts = append(m.posts, post)
	m.mu.Unlock()

	return &post, nil
}

// UpdatePost merges the patch under the write lock.
func (m *MemoryStore) UpdatePost(_ context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	if _, err := lookupID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	patch.Apply(&m.posts[i])
	post := m.posts[i]
	return &post, nil
}

// LikePost increments likes under the write lock.
func (m *MemoryStore) LikePost(_ context.Context, id string) (*models.Post, error) {
	if _, err := lookupID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	m.posts[i].Likes++
	post := m.posts[i]
	return &post, nil
}

// DeletePost removes the post if present.
func (m *MemoryStore) DeletePost(_ context.Context, id string) error {
	if _, err := lookupID(id); err != nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.indexOf(id); i >= 0 {
		m.posts = append(m.posts[:i], m.posts[i+1:]...)
	}
	return nil
}

// indexOf returns the slice position of id, or -1. Callers hold mu.
func (m *MemoryStore) indexOf(id string) int {
	for i := range m.posts {
		if m.posts[i].ID == id {
			return i
		}
	}
	return -1
}

// sorted returns a copy of the posts ordered newest first. The stable sort
// keeps insertion order for equal timestamps. Callers hold mu.
func (m *MemoryStore) sorted() []models.Post {
	out := make([]models.Post, len(m.posts))
	copy(out, m.posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
