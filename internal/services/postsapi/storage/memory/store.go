// Package memory provides an in-process postsapi store.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/louisbranch/postdesk/internal/services/postsapi/storage"
)

// Store keeps posts and comments in maps guarded by a RWMutex.
type Store struct {
	mu          sync.RWMutex
	closed      bool
	posts       map[int64]storage.Post
	comments    map[int64]storage.Comment
	nextPost    int64
	nextComment int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		posts:    make(map[int64]storage.Post),
		comments: make(map[int64]storage.Comment),
	}
}

// Close marks the store closed. Later calls fail with ErrNotConfigured.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// ListPosts returns every post ordered by id.
func (s *Store) ListPosts(ctx context.Context) ([]storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.Post, 0, len(s.posts))
	for _, post := range s.posts {
		out = append(out, post)
	}
	slices.SortFunc(out, func(a, b storage.Post) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// GetPost returns one post.
func (s *Store) GetPost(ctx context.Context, id int64) (storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Post{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	if !ok {
		return storage.Post{}, storage.ErrNotFound
	}
	return post, nil
}

// CreatePost stores a post under the next id.
func (s *Store) CreatePost(ctx context.Context, in storage.PostInput) (storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Post{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPost++
	post := storage.Post{ID: s.nextPost, UserID: in.UserID, Title: in.Title, Body: in.Body}
	s.posts[post.ID] = post
	return post, nil
}

// UpdatePost replaces the writable fields of an existing post.
func (s *Store) UpdatePost(ctx context.Context, id int64, in storage.PostInput) (storage.Post, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Post{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return storage.Post{}, storage.ErrNotFound
	}
	post := storage.Post{ID: id, UserID: in.UserID, Title: in.Title, Body: in.Body}
	s.posts[id] = post
	return post, nil
}

// DeletePost removes a post and its comments.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.posts, id)
	for commentID, comment := range s.comments {
		if comment.PostID == id {
			delete(s.comments, commentID)
		}
	}
	return nil
}

// CreateComment stores a comment on an existing post.
func (s *Store) CreateComment(ctx context.Context, in storage.CommentInput) (storage.Comment, error) {
	if err := s.ready(ctx); err != nil {
		return storage.Comment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[in.PostID]; !ok {
		return storage.Comment{}, storage.ErrNotFound
	}
	s.nextComment++
	comment := storage.Comment{ID: s.nextComment, PostID: in.PostID, Body: in.Body}
	s.comments[comment.ID] = comment
	return comment, nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil {
		return storage.ErrNotConfigured
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return storage.ErrNotConfigured
	}
	return nil
}

var _ storage.Store = (*Store)(nil)
