package forms

import (
	"strings"
	"sync"

	"github.com/louisbranch/postdesk/internal/posts"
	"github.com/louisbranch/postdesk/internal/querycache"
)

// ListView is a snapshot of the post list for rendering.
type ListView struct {
	Loading  bool
	Fetching bool
	Err      error
	Filter   string
	Posts    []posts.Post
	Total    int
}

// ListController keeps a subscription on the post list and projects it
// through the user filter.
type ListController struct {
	sub *querycache.Subscription[[]posts.Post]

	mu     sync.Mutex
	filter string
	memo   listMemo
	closed bool
}

type listMemo struct {
	valid   bool
	version uint64
	filter  string
	items   []posts.Post
	// computed counts recomputations of the projection.
	computed int
}

// NewListController subscribes to the post list, which triggers the first
// fetch when nothing is cached.
func NewListController(cache *querycache.Cache[[]posts.Post], fetch querycache.Fetcher[[]posts.Post]) *ListController {
	return &ListController{sub: cache.Subscribe(posts.CacheKey, fetch, nil)}
}

// SetFilter stores the raw filter input.
func (l *ListController) SetFilter(raw string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filter = strings.TrimSpace(raw)
}

// View reads the cache and applies the filter. The projection is reused
// until either the cached list or the filter changes.
func (l *ListController) View() ListView {
	entry := l.sub.Read()

	l.mu.Lock()
	defer l.mu.Unlock()
	view := ListView{
		Loading:  entry.Loading(),
		Fetching: entry.Fetching,
		Err:      entry.Err,
		Filter:   l.filter,
		Total:    len(entry.Data),
	}
	if !entry.HasData {
		return view
	}
	if !l.memo.valid || l.memo.version != entry.Version || l.memo.filter != l.filter {
		l.memo = listMemo{
			valid:    true,
			version:  entry.Version,
			filter:   l.filter,
			items:    posts.FilterByUser(entry.Data, posts.ParseUserFilter(l.filter)),
			computed: l.memo.computed + 1,
		}
	}
	view.Posts = l.memo.items
	return view
}

// Close releases the subscription. It is safe to call more than once.
func (l *ListController) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()
	l.sub.Unsubscribe()
}

func (l *ListController) projections() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.memo.computed
}
