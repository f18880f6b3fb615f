package postforms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/postdesk/internal/posts"
	"github.com/louisbranch/postdesk/internal/querycache"
	"github.com/louisbranch/postdesk/internal/services/web/forms"
	"github.com/louisbranch/postdesk/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/postdesk/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/postdesk/internal/services/web/workspace"
	"golang.org/x/net/html"
)

type fakeClient struct {
	mu        sync.Mutex
	calls     []string
	deleteErr error
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) ListPosts(context.Context) ([]posts.Post, error) {
	return nil, nil
}

func (f *fakeClient) CreatePost(_ context.Context, draft posts.Draft) (posts.Post, error) {
	f.record("create " + draft.Title)
	return posts.Post{ID: 101, Title: draft.Title, Body: draft.Body}, nil
}

func (f *fakeClient) UpdatePost(_ context.Context, id string, draft posts.Draft) (posts.Post, error) {
	f.record("update " + id)
	return posts.Post{Title: draft.Title, Body: draft.Body}, nil
}

func (f *fakeClient) DeletePost(_ context.Context, id string) (posts.Deleted, error) {
	f.record("delete " + id)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return posts.Deleted{}, f.deleteErr
	}
	return posts.Deleted{}, nil
}

func (f *fakeClient) CreateComment(_ context.Context, draft posts.CommentDraft) (posts.Comment, error) {
	f.record("comment " + draft.PostID)
	return posts.Comment{Body: draft.Body}, nil
}

// parkedTimer never fires.
type parkedTimer struct{}

func (parkedTimer) Stop() bool { return true }

type testModules struct {
	add, update, del, comment http.Handler
}

// newTestModules mounts every form over one workspace store. Notice timers
// are parked so success notices stay visible for the whole test.
func newTestModules(t *testing.T, client *fakeClient) testModules {
	t.Helper()
	cache := querycache.New[[]posts.Post](querycache.Options{RetryBaseDelay: time.Millisecond, Logf: t.Logf})
	store := workspace.NewStore(workspace.Config{
		Client: client,
		Cache:  cache,
		Forms: forms.Options{
			NoticeDuration: 5 * time.Second,
			AfterFunc: func(time.Duration, func()) forms.Timer {
				return parkedTimer{}
			},
		},
	})
	t.Cleanup(func() {
		store.Close()
		cache.Close()
	})
	base := modulehandler.NewBase(nil)
	notice := 5 * time.Second
	return testModules{
		add:     mountHandler(t, NewAdd(store, base, notice)),
		update:  mountHandler(t, NewUpdate(store, base, notice)),
		del:     mountHandler(t, NewDelete(store, base, notice)),
		comment: mountHandler(t, NewComment(store, base, notice)),
	}
}

func mountHandler(t *testing.T, m Module) http.Handler {
	t.Helper()
	mount, err := m.Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return mount.Handler
}

func newPost(target string, values url.Values, htmx bool, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func workspaceCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessioncookie.Name {
			return c
		}
	}
	t.Fatalf("response did not set %s cookie", sessioncookie.Name)
	return nil
}

// formNode is the parsed view of one rendered element.
type formNode struct {
	tag   string
	attrs map[string]string
	text  string
}

// findNodes returns the elements matching tag, with their attributes and
// text content.
func findNodes(t *testing.T, body string, tag string) []formNode {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	var out []formNode
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			node := formNode{tag: n.Data, attrs: map[string]string{}, text: textContent(n)}
			for _, attr := range n.Attr {
				node.attrs[attr.Key] = attr.Val
			}
			out = append(out, node)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// alerts returns the alert texts keyed by variant class.
func alerts(t *testing.T, body string) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, node := range findNodes(t, body, "div") {
		class := node.attrs["class"]
		switch {
		case strings.Contains(class, "alert-success"):
			out["success"] = node.text
		case strings.Contains(class, "alert-danger"):
			out["danger"] = node.text
		}
	}
	return out
}
