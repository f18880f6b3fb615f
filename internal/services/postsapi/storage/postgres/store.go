// Package postgres provides a Postgres-backed postsapi store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/louisbranch/postdesk/internal/services/postsapi/storage"
	"github.com/louisbranch/postdesk/internal/services/postsapi/storage/postgres/migrations"
)

// foreignKeyViolation is the Postgres SQLSTATE for a failed reference.
const foreignKeyViolation = "23503"

// Store persists posts in Postgres through a connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, migrations.Schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

// ListPosts returns every post ordered by id.
func (s *Store) ListPosts(ctx context.Context) ([]storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `SELECT id, user_id, title, body FROM posts ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	out, err := pgx.CollectRows(rows, scanPost)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if out == nil {
		out = []storage.Post{}
	}
	return out, nil
}

// GetPost returns one post by id.
func (s *Store) GetPost(ctx context.Context, id int64) (storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Post{}, err
	}
	rows, err := s.pool.Query(ctx, `SELECT id, user_id, title, body FROM posts WHERE id = $1`, id)
	if err != nil {
		return storage.Post{}, fmt.Errorf("get post: %w", err)
	}
	post, err := pgx.CollectExactlyOneRow(rows, scanPost)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Post{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Post{}, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// CreatePost inserts a post and returns it with its assigned id.
func (s *Store) CreatePost(ctx context.Context, in storage.PostInput) (storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Post{}, err
	}
	post := storage.Post{UserID: in.UserID, Title: in.Title, Body: in.Body}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO posts (user_id, title, body) VALUES ($1, $2, $3) RETURNING id`,
		in.UserID, in.Title, in.Body,
	).Scan(&post.ID)
	if err != nil {
		return storage.Post{}, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// UpdatePost replaces the writable fields of an existing post.
func (s *Store) UpdatePost(ctx context.Context, id int64, in storage.PostInput) (storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Post{}, err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE posts SET user_id = $1, title = $2, body = $3, updated_at = now() WHERE id = $4`,
		in.UserID, in.Title, in.Body, id,
	)
	if err != nil {
		return storage.Post{}, fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.Post{}, storage.ErrNotFound
	}
	return storage.Post{ID: id, UserID: in.UserID, Title: in.Title, Body: in.Body}, nil
}

// DeletePost removes a post. Its comments cascade.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CreateComment inserts a comment on an existing post.
func (s *Store) CreateComment(ctx context.Context, in storage.CommentInput) (storage.Comment, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Comment{}, err
	}
	comment := storage.Comment{PostID: in.PostID, Body: in.Body}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO comments (post_id, body) VALUES ($1, $2) RETURNING id`,
		in.PostID, in.Body,
	).Scan(&comment.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return storage.Comment{}, storage.ErrNotFound
		}
		return storage.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.pool == nil {
		return storage.ErrNotConfigured
	}
	return nil
}

func scanPost(row pgx.CollectableRow) (storage.Post, error) {
	var post storage.Post
	err := row.Scan(&post.ID, &post.UserID, &post.Title, &post.Body)
	return post, err
}

var _ storage.Store = (*Store)(nil)
