// Package sqlite provides a SQLite-backed postsapi store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/postdesk/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/postdesk/internal/services/postsapi/storage"
	"github.com/louisbranch/postdesk/internal/services/postsapi/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists posts in SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ListPosts returns every post ordered by id.
func (s *Store) ListPosts(ctx context.Context) ([]storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, user_id, title, body
		   FROM posts
		  ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := make([]storage.Post, 0)
	for rows.Next() {
		var post storage.Post
		if err := rows.Scan(&post.ID, &post.UserID, &post.Title, &post.Body); err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		out = append(out, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return out, nil
}

// GetPost returns one post by id.
func (s *Store) GetPost(ctx context.Context, id int64) (storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Post{}, err
	}
	var post storage.Post
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, user_id, title, body
		   FROM posts
		  WHERE id = ?`,
		id,
	).Scan(&post.ID, &post.UserID, &post.Title, &post.Body)
	if errors.Is(err, sql.ErrNoRows) {
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
	now := s.now().UTC().UnixMilli()
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO posts (user_id, title, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		in.UserID, in.Title, in.Body, now, now,
	)
	if err != nil {
		return storage.Post{}, fmt.Errorf("create post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storage.Post{}, fmt.Errorf("create post id: %w", err)
	}
	return storage.Post{ID: id, UserID: in.UserID, Title: in.Title, Body: in.Body}, nil
}

// UpdatePost replaces the writable fields of an existing post.
func (s *Store) UpdatePost(ctx context.Context, id int64, in storage.PostInput) (storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Post{}, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE posts
		    SET user_id = ?, title = ?, body = ?, updated_at = ?
		  WHERE id = ?`,
		in.UserID, in.Title, in.Body, s.now().UTC().UnixMilli(), id,
	)
	if err != nil {
		return storage.Post{}, fmt.Errorf("update post: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return storage.Post{}, err
	}
	return storage.Post{ID: id, UserID: in.UserID, Title: in.Title, Body: in.Body}, nil
}

// DeletePost removes a post. Its comments cascade.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return requireAffected(res)
}

// CreateComment inserts a comment on an existing post.
func (s *Store) CreateComment(ctx context.Context, in storage.CommentInput) (storage.Comment, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Comment{}, err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO comments (post_id, body, created_at) VALUES (?, ?, ?)`,
		in.PostID, in.Body, s.now().UTC().UnixMilli(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.Comment{}, storage.ErrNotFound
		}
		return storage.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storage.Comment{}, fmt.Errorf("create comment id: %w", err)
	}
	return storage.Comment{ID: id, PostID: in.PostID, Body: in.Body}, nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ErrNotConfigured
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}

var _ storage.Store = (*Store)(nil)
