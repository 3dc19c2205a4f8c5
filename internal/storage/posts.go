package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/codedbysoumyajit/Blogspot/internal/models"
	"github.com/codedbysoumyajit/Blogspot/internal/postid"
	"golang.org/x/sync/errgroup"
)

const postColumns = `id, title, description, content, image, created_at, author, location, likes`

// postOrder is shared by ListPosts and PaginatePosts so that pages tile the
// full listing exactly.
const postOrder = `ORDER BY created_at DESC, seq ASC`

// ListPosts returns every post, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts `+postOrder)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// PaginatePosts returns the requested page and the total page count. The
// page query and the count query run concurrently.
func (s *Store) PaginatePosts(ctx context.Context, page, limit int) (*models.PostPage, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, err
	}

	var (
		posts = []models.Post{}
		total int64
	)

	offset, inRange := pageOffset(page, limit)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if !inRange {
			return nil
		}
		rows, err := s.db.QueryContext(gctx,
			`SELECT `+postColumns+` FROM posts `+postOrder+` LIMIT ? OFFSET ?`,
			limit, offset)
		if err != nil {
			return fmt.Errorf("querying post page: %w", err)
		}
		defer rows.Close()

		posts, err = scanPosts(rows)
		if err != nil {
			return fmt.Errorf("scanning post page: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.db.QueryRowContext(gctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
			return fmt.Errorf("counting posts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.PostPage{Posts: posts, TotalPages: TotalPages(total, limit)}, nil
}

// GetPost returns the post with the given id.
// Returns nil, ErrNotFound if the id is malformed or no row matches.
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, postid.String(oid))
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting post by id: %w", err)
	}
	return post, nil
}

// CreatePost inserts a new post and returns the stored record.
func (s *Store) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	post := &models.Post{
		ID:          postid.String(postid.New()),
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		Image:       in.Image,
		CreatedAt:   createdAtNow(s.now),
		Author:      in.Author,
		Location:    in.Location,
		Likes:       0,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Description, post.Content, post.Image,
		formatTime(post.CreatedAt), post.Author, post.Location, post.Likes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return post, nil
}

// UpdatePost applies the merge patch in a single statement. Columns whose
// patch field is nil keep their current value.
func (s *Store) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return s.GetPost(ctx, id)
	}

	row := s.db.QueryRowContext(ctx,
		`UPDATE posts SET
			title       = COALESCE(?, title),
			description = COALESCE(?, description),
			content     = COALESCE(?, content),
			image       = COALESCE(?, image),
			author      = COALESCE(?, author),
			location    = COALESCE(?, location)
		 WHERE id = ?
		 RETURNING `+postColumns,
		patch.Title, patch.Description, patch.Content, patch.Image,
		patch.Author, patch.Location, postid.String(oid),
	)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating post: %w", err)
	}
	return post, nil
}

// LikePost increments likes with a single UPDATE ... RETURNING so that
// concurrent likes never overwrite each other.
func (s *Store) LikePost(ctx context.Context, id string) (*models.Post, error) {
	oid, err := lookupID(id)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`UPDATE posts SET likes = likes + 1 WHERE id = ? RETURNING `+postColumns,
		postid.String(oid),
	)
	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("liking post: %w", err)
	}
	return post, nil
}

// DeletePost removes the post with the given id. Malformed or unknown ids
// are a no-op.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	oid, err := lookupID(id)
	if err != nil {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, postid.String(oid)); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

// scanner is a minimal interface satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanPost scans a single post row in postColumns order.
func scanPost(row scanner) (*models.Post, error) {
	var (
		post      models.Post
		createdAt string
	)
	if err := row.Scan(
		&post.ID, &post.Title, &post.Description, &post.Content, &post.Image,
		&createdAt, &post.Author, &post.Location, &post.Likes,
	); err != nil {
		return nil, err
	}
	post.CreatedAt = parseTime(createdAt)
	return &post, nil
}

// scanPosts drains rows into a non-nil slice.
func scanPosts(rows *sql.Rows) ([]models.Post, error) {
	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post row: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating post rows: %w", err)
	}
	return posts, nil
}
