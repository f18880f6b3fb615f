// Package storage defines persistence contracts for the postsapi store.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a requested post is missing.
	ErrNotFound = errors.New("record not found")
	// ErrNotConfigured is returned by a nil or closed store.
	ErrNotConfigured = errors.New("storage is not configured")
)

// Post is one stored post record.
type Post struct {
	ID     int64
	UserID int64
	Title  string
	Body   string
}

// PostInput carries the writable post fields.
type PostInput struct {
	UserID int64
	Title  string
	Body   string
}

// Comment is one stored comment record.
type Comment struct {
	ID     int64
	PostID int64
	Body   string
}

// CommentInput carries the writable comment fields.
type CommentInput struct {
	PostID int64
	Body   string
}

// Store persists posts and comments. Posts list in ascending id order.
type Store interface {
	ListPosts(ctx context.Context) ([]Post, error)
	GetPost(ctx context.Context, id int64) (Post, error)
	CreatePost(ctx context.Context, in PostInput) (Post, error)
	UpdatePost(ctx context.Context, id int64, in PostInput) (Post, error)
	DeletePost(ctx context.Context, id int64) error
	CreateComment(ctx context.Context, in CommentInput) (Comment, error)
	Close() error
}

// Seed posts per user in the demo shape: ten users with ten posts each.
const (
	SeedUsers        = 10
	SeedPostsPerUser = 10
)

// Seed fills an empty store with the demo post set. A store that already
// holds posts is left untouched. It returns the number of posts created.
func Seed(ctx context.Context, store Store) (int, error) {
	if store == nil {
		return 0, ErrNotConfigured
	}
	existing, err := store.ListPosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list posts: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	created := 0
	for user := int64(1); user <= SeedUsers; user++ {
		for n := 1; n <= SeedPostsPerUser; n++ {
			seq := created + 1
			_, err := store.CreatePost(ctx, PostInput{
				UserID: user,
				Title:  fmt.Sprintf("post %d by user %d", seq, user),
				Body:   fmt.Sprintf("body of post %d", seq),
			})
			if err != nil {
				return created, fmt.Errorf("seed post %d: %w", seq, err)
			}
			created++
		}
	}
	return created, nil
}
