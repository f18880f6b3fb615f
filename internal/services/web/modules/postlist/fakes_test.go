package postlist

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/postdesk/internal/posts"
	"github.com/louisbranch/postdesk/internal/querycache"
	"github.com/louisbranch/postdesk/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/postdesk/internal/services/web/workspace"
	"golang.org/x/net/html"
)

// fakeClient serves a fixed post list. A non-nil release channel holds
// ListPosts until it is closed.
type fakeClient struct {
	mu      sync.Mutex
	items   []posts.Post
	listErr error
	release chan struct{}
}

func (f *fakeClient) ListPosts(ctx context.Context) ([]posts.Post, error) {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]posts.Post(nil), f.items...), nil
}

func (f *fakeClient) CreatePost(context.Context, posts.Draft) (posts.Post, error) {
	return posts.Post{}, nil
}

func (f *fakeClient) UpdatePost(context.Context, string, posts.Draft) (posts.Post, error) {
	return posts.Post{}, nil
}

func (f *fakeClient) DeletePost(context.Context, string) (posts.Deleted, error) {
	return posts.Deleted{}, nil
}

func (f *fakeClient) CreateComment(context.Context, posts.CommentDraft) (posts.Comment, error) {
	return posts.Comment{}, nil
}

func newTestModule(t *testing.T, client *fakeClient) (Module, *querycache.Cache[[]posts.Post]) {
	t.Helper()
	cache := querycache.New[[]posts.Post](querycache.Options{RetryBaseDelay: time.Millisecond, Logf: t.Logf})
	store := workspace.NewStore(workspace.Config{Client: client, Cache: cache})
	t.Cleanup(func() {
		store.Close()
		cache.Close()
	})
	return New(store, modulehandler.NewBase(nil)), cache
}

func mountHandler(t *testing.T, m Module) http.Handler {
	t.Helper()
	mount, err := m.Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return mount.Handler
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, field := range strings.Fields(attr.Val) {
				if field == class {
					return true
				}
			}
		}
	}
	return false
}

// countNodes counts elements carrying class in the rendered markup.
func countNodes(t *testing.T, body string, class string) int {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	count := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			count++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return count
}
