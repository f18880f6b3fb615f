// Package storagetest holds the behavior suite every postsapi store passes.
package storagetest

import (
	"context"
	"testing"

	"github.com/louisbranch/postdesk/internal/services/postsapi/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Opener returns an empty store. The suite closes it.
type Opener func(t *testing.T) storage.Store

// Run exercises store behavior against fresh stores from open.
func Run(t *testing.T, open Opener) {
	t.Helper()

	t.Run("create assigns increasing ids", func(t *testing.T) {
		store := openStore(t, open)
		ctx := context.Background()

		first, err := store.CreatePost(ctx, storage.PostInput{UserID: 1, Title: "a", Body: "x"})
		require.NoError(t, err)
		second, err := store.CreatePost(ctx, storage.PostInput{UserID: 2, Title: "b", Body: "y"})
		require.NoError(t, err)

		assert.Positive(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
		assert.Equal(t, storage.Post{ID: second.ID, UserID: 2, Title: "b", Body: "y"}, second)
	})

	t.Run("list orders by id", func(t *testing.T) {
		store := openStore(t, open)
		ctx := context.Background()

		empty, err := store.ListPosts(ctx)
		require.NoError(t, err)
		assert.Empty(t, empty)

		for _, title := range []string{"a", "b", "c"} {
			_, err := store.CreatePost(ctx, storage.PostInput{UserID: 1, Title: title, Body: "x"})
			require.NoError(t, err)
		}
		got, err := store.ListPosts(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Title, got[1].Title, got[2].Title})
	})

	t.Run("get missing post", func(t *testing.T) {
		store := openStore(t, open)
		_, err := store.GetPost(context.Background(), 999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update replaces fields", func(t *testing.T) {
		store := openStore(t, open)
		ctx := context.Background()

		created, err := store.CreatePost(ctx, storage.PostInput{UserID: 1, Title: "a", Body: "x"})
		require.NoError(t, err)
		updated, err := store.UpdatePost(ctx, created.ID, storage.PostInput{UserID: 3, Title: "new", Body: "z"})
		require.NoError(t, err)
		assert.Equal(t, storage.Post{ID: created.ID, UserID: 3, Title: "new", Body: "z"}, updated)

		got, err := store.GetPost(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		_, err = store.UpdatePost(ctx, created.ID+100, storage.PostInput{Title: "t"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete removes post", func(t *testing.T) {
		store := openStore(t, open)
		ctx := context.Background()

		created, err := store.CreatePost(ctx, storage.PostInput{UserID: 1, Title: "a", Body: "x"})
		require.NoError(t, err)
		_, err = store.CreateComment(ctx, storage.CommentInput{PostID: created.ID, Body: "hi"})
		require.NoError(t, err)

		require.NoError(t, store.DeletePost(ctx, created.ID))
		_, err = store.GetPost(ctx, created.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeletePost(ctx, created.ID), storage.ErrNotFound)
	})

	t.Run("comment requires post", func(t *testing.T) {
		store := openStore(t, open)
		ctx := context.Background()

		_, err := store.CreateComment(ctx, storage.CommentInput{PostID: 42, Body: "hi"})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		post, err := store.CreatePost(ctx, storage.PostInput{UserID: 1, Title: "a", Body: "x"})
		require.NoError(t, err)
		comment, err := store.CreateComment(ctx, storage.CommentInput{PostID: post.ID, Body: "hi"})
		require.NoError(t, err)
		assert.Positive(t, comment.ID)
		assert.Equal(t, post.ID, comment.PostID)
		assert.Equal(t, "hi", comment.Body)
	})

	t.Run("seed fills empty store once", func(t *testing.T) {
		store := openStore(t, open)
		ctx := context.Background()

		created, err := storage.Seed(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, storage.SeedUsers*storage.SeedPostsPerUser, created)

		again, err := storage.Seed(ctx, store)
		require.NoError(t, err)
		assert.Zero(t, again)

		got, err := store.ListPosts(ctx)
		require.NoError(t, err)
		require.Len(t, got, 100)
		assert.Equal(t, int64(1), got[0].UserID)
		assert.Equal(t, int64(10), got[99].UserID)
	})

	t.Run("cancelled context", func(t *testing.T) {
		store := openStore(t, open)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := store.ListPosts(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func openStore(t *testing.T, open Opener) storage.Store {
	t.Helper()
	store := open(t)
	require.NotNil(t, store)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}
