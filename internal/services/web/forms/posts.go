package forms

import (
	"context"
	"log"
	"time"

	"github.com/louisbranch/postdesk/internal/mutation"
	"github.com/louisbranch/postdesk/internal/posts"
)

// PostWriter is the part of the resource client the forms write through.
type PostWriter interface {
	CreatePost(ctx context.Context, draft posts.Draft) (posts.Post, error)
	UpdatePost(ctx context.Context, id string, draft posts.Draft) (posts.Post, error)
	DeletePost(ctx context.Context, id string) (posts.Deleted, error)
	CreateComment(ctx context.Context, draft posts.CommentDraft) (posts.Comment, error)
}

// Invalidator marks cache keys stale.
type Invalidator interface {
	Invalidate(key string)
}

// Options carries the timing shared by every form.
type Options struct {
	NoticeDuration time.Duration
	AfterFunc      AfterFunc
}

type (
	AddForm     = Controller[posts.Draft, posts.Post]
	UpdateForm  = Controller[posts.UpdateDraft, posts.Post]
	DeleteForm  = Controller[posts.DeleteDraft, posts.Deleted]
	CommentForm = Controller[posts.CommentDraft, posts.Comment]
)

func invalidateOnSuccess[In, Out any](cache Invalidator, key string) mutation.Option[In, Out] {
	return mutation.WithOnSuccess(func(context.Context, In, Out) {
		if cache != nil {
			cache.Invalidate(key)
		}
	})
}

// NewAddForm builds the create form. The fields clear after a success.
func NewAddForm(writer PostWriter, cache Invalidator, opts Options) *AddForm {
	runner := mutation.New(writer.CreatePost, invalidateOnSuccess[posts.Draft, posts.Post](cache, posts.CacheKey))
	return NewController(Config[posts.Draft, posts.Post]{
		Name:           "add_post",
		Runner:         runner,
		Validate:       posts.Draft.Validate,
		ResetOnSuccess: true,
		NoticeDuration: opts.NoticeDuration,
		AfterFunc:      opts.AfterFunc,
		OnSuccess: func(_ posts.Draft, out posts.Post) {
			log.Printf("post added id=%s", out.ID)
		},
	})
}

// NewUpdateForm builds the update form.
func NewUpdateForm(writer PostWriter, cache Invalidator, opts Options) *UpdateForm {
	update := func(ctx context.Context, in posts.UpdateDraft) (posts.Post, error) {
		return writer.UpdatePost(ctx, in.PostID, in.Draft)
	}
	runner := mutation.New(update, invalidateOnSuccess[posts.UpdateDraft, posts.Post](cache, posts.CacheKey))
	return NewController(Config[posts.UpdateDraft, posts.Post]{
		Name:           "update_post",
		Runner:         runner,
		Validate:       posts.UpdateDraft.Validate,
		NoticeDuration: opts.NoticeDuration,
		AfterFunc:      opts.AfterFunc,
		OnSuccess: func(in posts.UpdateDraft, out posts.Post) {
			log.Printf("post updated id=%s", in.PostID)
		},
	})
}

// NewDeleteForm builds the delete form. No existence check runs before the
// delete request.
func NewDeleteForm(writer PostWriter, cache Invalidator, opts Options) *DeleteForm {
	remove := func(ctx context.Context, in posts.DeleteDraft) (posts.Deleted, error) {
		return writer.DeletePost(ctx, in.PostID)
	}
	runner := mutation.New(remove, invalidateOnSuccess[posts.DeleteDraft, posts.Deleted](cache, posts.CacheKey))
	return NewController(Config[posts.DeleteDraft, posts.Deleted]{
		Name:           "delete_post",
		Runner:         runner,
		Validate:       posts.DeleteDraft.Validate,
		NoticeDuration: opts.NoticeDuration,
		AfterFunc:      opts.AfterFunc,
		OnSuccess: func(_ posts.DeleteDraft, out posts.Deleted) {
			log.Printf("post deleted id=%s", out.ID)
		},
	})
}

// NewCommentForm builds the comment form. The fields clear as soon as a
// submit is accepted, before its outcome is known.
func NewCommentForm(writer PostWriter, cache Invalidator, opts Options) *CommentForm {
	runner := mutation.New(writer.CreateComment, invalidateOnSuccess[posts.CommentDraft, posts.Comment](cache, posts.CommentsCacheKey))
	return NewController(Config[posts.CommentDraft, posts.Comment]{
		Name:          "comment",
		Runner:        runner,
		Validate:      posts.CommentDraft.Validate,
		ResetOnSubmit: true,
		NoticeDuration: opts.NoticeDuration,
		AfterFunc:      opts.AfterFunc,
	})
}
