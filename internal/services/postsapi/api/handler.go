// Package api serves the post collection over JSON REST.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/louisbranch/postdesk/internal/platform/timeouts"
	"github.com/louisbranch/postdesk/internal/posts"
	"github.com/louisbranch/postdesk/internal/services/postsapi/storage"
)

// maxBodyBytes bounds one request body.
const maxBodyBytes = 1 << 20

// NewHandler returns the REST routes backed by store.
func NewHandler(store storage.Store) http.Handler {
	h := handlers{store: store}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts", h.listPosts)
	mux.HandleFunc("POST /posts", h.createPost)
	mux.HandleFunc("GET /posts/{id}", h.getPost)
	mux.HandleFunc("PUT /posts/{id}", h.updatePost)
	mux.HandleFunc("DELETE /posts/{id}", h.deletePost)
	mux.HandleFunc("POST /comments", h.createComment)
	mux.HandleFunc("GET /up", h.up)
	return mux
}

type handlers struct {
	store storage.Store
}

type postJSON struct {
	UserID int64  `json:"userId"`
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

func (h handlers) listPosts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()
	items, err := h.store.ListPosts(ctx)
	if err != nil {
		writeStoreError(w, "list_posts", err)
		return
	}
	out := make([]postJSON, 0, len(items))
	for _, item := range items {
		out = append(out, toJSON(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h handlers) getPost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	ctx, cancel := storeContext(r)
	defer cancel()
	post, err := h.store.GetPost(ctx, id)
	if err != nil {
		writeStoreError(w, "get_post", err)
		return
	}
	writeJSON(w, http.StatusOK, toJSON(post))
}

func (h handlers) createPost(w http.ResponseWriter, r *http.Request) {
	fields, ok := readFields(w, r)
	if !ok {
		return
	}
	ctx, cancel := storeContext(r)
	defer cancel()
	post, err := h.store.CreatePost(ctx, postInput(fields))
	if err != nil {
		writeStoreError(w, "create_post", err)
		return
	}
	writeJSON(w, http.StatusCreated, echo(fields, post.ID))
}

func (h handlers) updatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	fields, ok := readFields(w, r)
	if !ok {
		return
	}
	ctx, cancel := storeContext(r)
	defer cancel()
	if _, err := h.store.UpdatePost(ctx, id, postInput(fields)); err != nil {
		writeStoreError(w, "update_post", err)
		return
	}
	writeJSON(w, http.StatusOK, echo(fields, id))
}

func (h handlers) deletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	ctx, cancel := storeContext(r)
	defer cancel()
	if err := h.store.DeletePost(ctx, id); err != nil {
		writeStoreError(w, "delete_post", err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h handlers) createComment(w http.ResponseWriter, r *http.Request) {
	fields, ok := readFields(w, r)
	if !ok {
		return
	}
	ctx, cancel := storeContext(r)
	defer cancel()
	comment, err := h.store.CreateComment(ctx, storage.CommentInput{
		PostID: lenientID(fields["postId"]),
		Body:   text(fields["body"]),
	})
	if err != nil {
		writeStoreError(w, "create_comment", err)
		return
	}
	writeJSON(w, http.StatusCreated, echo(fields, comment.ID))
}

func (h handlers) up(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()
	if _, err := h.store.ListPosts(ctx); err != nil {
		log.Printf("postsapi health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), timeouts.StoreRequest)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// readFields decodes a JSON object body, keeping each value raw so the
// response can echo it back as sent.
func readFields(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body must be a JSON object"})
		return nil, false
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, true
}

func postInput(fields map[string]json.RawMessage) storage.PostInput {
	return storage.PostInput{
		UserID: lenientID(fields["userId"]),
		Title:  text(fields["title"]),
		Body:   text(fields["body"]),
	}
}

func echo(fields map[string]json.RawMessage, id int64) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(fields)+1)
	for key, value := range fields {
		out[key] = value
	}
	out["id"] = json.RawMessage(strconv.FormatInt(id, 10))
	return out
}

// lenientID accepts a number or a numeric string. Anything else stores as 0.
func lenientID(raw json.RawMessage) int64 {
	var id posts.ID
	if len(raw) == 0 || id.UnmarshalJSON(raw) != nil {
		return 0
	}
	return int64(id)
}

func text(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func toJSON(post storage.Post) postJSON {
	return postJSON{UserID: post.UserID, ID: post.ID, Title: post.Title, Body: post.Body}
}

func writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, struct{}{})
		return
	}
	log.Printf("postsapi op=%s err=%v", op, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("postsapi write response: %v", err)
	}
}
