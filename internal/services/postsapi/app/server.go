// Package server wires the postsapi storage and HTTP lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/louisbranch/postdesk/internal/platform/timeouts"
	"github.com/louisbranch/postdesk/internal/services/postsapi/api"
	"github.com/louisbranch/postdesk/internal/services/postsapi/storage"
	"github.com/louisbranch/postdesk/internal/services/postsapi/storage/memory"
	"github.com/louisbranch/postdesk/internal/services/postsapi/storage/postgres"
	"github.com/louisbranch/postdesk/internal/services/postsapi/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Storage backend names.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config selects the listen address and storage backend.
type Config struct {
	HTTPAddr    string
	Storage     string
	DBPath      string
	PostgresDSN string
	// Seed fills an empty store with the demo post set on start.
	Seed bool
}

// Server hosts the postsapi REST routes and the store behind them.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      storage.Store
}

// OpenStore opens the backend named by cfg.Storage. Empty means sqlite.
func OpenStore(ctx context.Context, cfg Config) (storage.Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Storage))
	switch backend {
	case "", StorageSQLite:
		store, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case StoragePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return store, nil
	case StorageMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// New opens the store and binds the listener.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		return nil, errors.New("http address is required")
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Seed {
		created, err := storage.Seed(ctx, store)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
		log.Printf("postsapi seed created=%d", created)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	return &Server{
		listener: listener,
		httpServer: &http.Server{
			Handler:           otelhttp.NewHandler(api.NewHandler(store), "postsapi"),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store: store,
	}, nil
}

// Addr returns the listener address for the server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a postsapi server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve handles requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	log.Printf("postsapi listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case err := <-serveErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close postsapi store: %v", err)
		}
	}
}
