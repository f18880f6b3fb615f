package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/postdesk/internal/posts"
	"github.com/louisbranch/postdesk/internal/services/web/platform/sessioncookie"
)

type memoryClient struct {
	mu    sync.Mutex
	items []posts.Post
	lists int
}

func (m *memoryClient) ListPosts(context.Context) ([]posts.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	return append([]posts.Post(nil), m.items...), nil
}

func (m *memoryClient) CreatePost(_ context.Context, draft posts.Draft) (posts.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post := posts.Post{ID: posts.ID(len(m.items) + 1), Title: draft.Title, Body: draft.Body, UserID: 1}
	m.items = append(m.items, post)
	return post, nil
}

func (m *memoryClient) UpdatePost(context.Context, string, posts.Draft) (posts.Post, error) {
	return posts.Post{}, nil
}

func (m *memoryClient) DeletePost(context.Context, string) (posts.Deleted, error) {
	return posts.Deleted{}, nil
}

func (m *memoryClient) CreateComment(context.Context, posts.CommentDraft) (posts.Comment, error) {
	return posts.Comment{}, nil
}

func newTestServer(t *testing.T, client *memoryClient) *Server {
	t.Helper()
	server, err := NewServer(context.Background(), Config{HTTPAddr: "127.0.0.1:0", Client: client})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(server.Close)
	return server
}

func htmxRequest(method, target string, body url.Values, cookie *http.Cookie) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("HX-Request", "true")
	req.Header.Set("Origin", "http://example.com")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestNewServerRequiresAddress(t *testing.T) {
	t.Parallel()

	if _, err := NewServer(context.Background(), Config{}); err == nil {
		t.Fatal("expected missing address error")
	}
}

func TestAddedPostAppearsInList(t *testing.T) {
	t.Parallel()

	client := &memoryClient{items: []posts.Post{{ID: 1, Title: "seed", Body: "b", UserID: 1}}}
	h := newTestServer(t, client).Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, htmxRequest(http.MethodGet, "/home", nil, nil))
	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessioncookie.Name {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("workspace cookie not set")
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, htmxRequest(http.MethodPost, "/add-post", url.Values{"title": {"fresh"}, "body": {"b"}, "userId": {"1"}}, cookie))
	if !strings.Contains(rr.Body.String(), "Post successfully added!") {
		t.Fatalf("add response = %s", rr.Body.String())
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, htmxRequest(http.MethodGet, "/home", nil, cookie))
		if strings.Contains(rr.Body.String(), "2. fresh") {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("list never showed the added post: %s", rr.Body.String())
}

func TestCrossOriginMutationIsRejected(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &memoryClient{}).Handler()
	req := htmxRequest(http.MethodPost, "/delete-post", url.Values{"postId": {"1"}}, &http.Cookie{Name: sessioncookie.Name, Value: "ws-1"})
	req.Header.Set("Origin", "http://evil.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestHealthReportsEveryModule(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &memoryClient{}).Handler()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/up", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var report struct {
		Status  string          `json:"status"`
		Modules map[string]bool `json:"modules"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if report.Status != "ok" || len(report.Modules) != 6 {
		t.Fatalf("report = %+v", report)
	}
}

func TestRevalidateAndStaticRoutes(t *testing.T) {
	t.Parallel()

	h := newTestServer(t, &memoryClient{}).Handler()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/revalidate/focus", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("revalidate status = %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "revalidated") {
		t.Fatalf("static status = %d body = %q", rr.Code, rr.Body.String())
	}
}

func TestListenAndServeStopsWithContext(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &memoryClient{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ListenAndServe(ctx) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ListenAndServe() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not stop")
	}
}
