// Package workspace keeps the form and list controllers of each visitor,
// addressed by the workspace cookie.
package workspace

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/louisbranch/postdesk/internal/posts"
	"github.com/louisbranch/postdesk/internal/querycache"
	"github.com/louisbranch/postdesk/internal/services/web/forms"
	"github.com/louisbranch/postdesk/internal/services/web/platform/sessioncookie"
)

const (
	// DefaultSize bounds the number of live workspaces.
	DefaultSize = 1024
	// DefaultTTL is how long an untouched workspace survives.
	DefaultTTL = 30 * time.Minute
)

// PostClient is the resource client surface a workspace needs.
type PostClient interface {
	forms.PostWriter
	ListPosts(ctx context.Context) ([]posts.Post, error)
}

// Workspace groups one visitor's controllers.
type Workspace struct {
	ID      string
	List    *forms.ListController
	Add     *forms.AddForm
	Update  *forms.UpdateForm
	Delete  *forms.DeleteForm
	Comment *forms.CommentForm

	closeOnce sync.Once
	closed    chan struct{}
}

// Close unmounts every controller. Safe to call more than once.
func (w *Workspace) Close() {
	w.closeOnce.Do(func() {
		w.List.Close()
		w.Add.Close()
		w.Update.Close()
		w.Delete.Close()
		w.Comment.Close()
		close(w.closed)
	})
}

// Closed reports whether the workspace was closed.
func (w *Workspace) Closed() bool {
	select {
	case <-w.closed:
		return true
	default:
		return false
	}
}

// Config wires a Store.
type Config struct {
	Client PostClient
	Cache  *querycache.Cache[[]posts.Post]
	Forms  forms.Options
	Size   int
	TTL    time.Duration
	// NewID overrides workspace id generation.
	NewID func() string
}

// Store holds live workspaces in an expiring LRU. Evicted workspaces are
// closed.
type Store struct {
	cfg Config
	mu  sync.Mutex
	lru *expirable.LRU[string, *Workspace]
}

// NewStore builds a workspace store.
func NewStore(cfg Config) *Store {
	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	onEvict := func(id string, ws *Workspace) {
		log.Printf("workspace closed id=%s", id)
		ws.Close()
	}
	return &Store{cfg: cfg, lru: expirable.NewLRU[string, *Workspace](cfg.Size, onEvict, cfg.TTL)}
}

// Resolve returns the requester's workspace, opening a new one and setting
// the cookie when none is live. Each call renews the idle TTL.
func (s *Store) Resolve(w http.ResponseWriter, r *http.Request) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := sessioncookie.Read(r); ok {
		if ws, found := s.lru.Get(id); found && !ws.Closed() {
			s.lru.Add(id, ws)
			return ws
		}
	}

	ws := s.open(s.cfg.NewID())
	s.lru.Add(ws.ID, ws)
	sessioncookie.Write(w, r, ws.ID, 0)
	log.Printf("workspace opened id=%s", ws.ID)
	return ws
}

// Lookup returns a live workspace without renewing it.
func (s *Store) Lookup(id string) (*Workspace, bool) {
	ws, ok := s.lru.Peek(id)
	if !ok || ws.Closed() {
		return nil, false
	}
	return ws, true
}

// Len returns the number of live workspaces.
func (s *Store) Len() int {
	return s.lru.Len()
}

// Close closes every workspace.
func (s *Store) Close() {
	s.lru.Purge()
}

func (s *Store) open(id string) *Workspace {
	fetch := querycache.Fetcher[[]posts.Post](s.cfg.Client.ListPosts)
	return &Workspace{
		ID:      id,
		List:    forms.NewListController(s.cfg.Cache, fetch),
		Add:     forms.NewAddForm(s.cfg.Client, s.cfg.Cache, s.cfg.Forms),
		Update:  forms.NewUpdateForm(s.cfg.Client, s.cfg.Cache, s.cfg.Forms),
		Delete:  forms.NewDeleteForm(s.cfg.Client, s.cfg.Cache, s.cfg.Forms),
		Comment: forms.NewCommentForm(s.cfg.Client, s.cfg.Cache, s.cfg.Forms),
		closed:  make(chan struct{}),
	}
}
