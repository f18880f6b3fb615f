// Package web hosts the browser-facing post desk: the post list, the post
// forms and the revalidation triggers, composed from feature modules.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/postdesk/internal/platform/timeouts"
	"github.com/louisbranch/postdesk/internal/posts"
	"github.com/louisbranch/postdesk/internal/posts/resource"
	"github.com/louisbranch/postdesk/internal/querycache"
	"github.com/louisbranch/postdesk/internal/services/web/app"
	"github.com/louisbranch/postdesk/internal/services/web/forms"
	"github.com/louisbranch/postdesk/internal/services/web/modules"
	"github.com/louisbranch/postdesk/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/postdesk/internal/services/web/workspace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	// APIBaseURL is the root of the post collection.
	APIBaseURL string
	APITimeout time.Duration
	// StaleTime and RetentionTime tune the post list cache.
	StaleTime     time.Duration
	RetentionTime time.Duration
	// NoticeDuration is how long form success notices stay visible.
	NoticeDuration time.Duration
	WorkspaceTTL   time.Duration
	WorkspaceSize  int
	// TrustForwardedProto honors X-Forwarded-Proto behind a proxy.
	TrustForwardedProto bool
	// Client replaces the HTTP resource client.
	Client workspace.PostClient
}

// Server hosts the web HTTP server and the state shared by its visitors.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	handler    http.Handler
	cache      *querycache.Cache[[]posts.Post]
	workspaces *workspace.Store
}

// NewServer builds a configured web server.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if config.APITimeout <= 0 {
		config.APITimeout = timeouts.APIRequest
	}

	client := config.Client
	if client == nil {
		client = resource.New(config.APIBaseURL,
			resource.WithHTTPClient(&http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}),
			resource.WithTimeout(config.APITimeout),
		)
	}

	cache := querycache.New[[]posts.Post](querycache.Options{
		StaleTime:     config.StaleTime,
		RetentionTime: config.RetentionTime,
	})
	workspaces := workspace.NewStore(workspace.Config{
		Client: client,
		Cache:  cache,
		Forms:  forms.Options{NoticeDuration: config.NoticeDuration},
		Size:   config.WorkspaceSize,
		TTL:    config.WorkspaceTTL,
	})

	root, err := app.BuildRootHandler(app.Config{
		Modules: modules.DefaultModules(modules.Dependencies{
			Workspaces:     workspaces,
			Cache:          cache,
			NoticeDuration: config.NoticeDuration,
		}),
		RequestSchemePolicy: requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto},
	})
	if err != nil {
		workspaces.Close()
		cache.Close()
		return nil, fmt.Errorf("build handler: %w", err)
	}
	handler := otelhttp.NewHandler(root, "web")

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		handler:    handler,
		cache:      cache,
		workspaces: workspaces,
	}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	if s == nil {
		return nil
	}
	return s.handler
}

// ListenAndServe runs the HTTP server and the cache janitor until the
// context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.cache.Run(janitorCtx, timeouts.CacheSweep)

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close unmounts every workspace and stops background fetches.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.workspaces.Close()
	s.cache.Close()
}
