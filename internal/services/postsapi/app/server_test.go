package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenStoreBackends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem, err := OpenStore(ctx, Config{Storage: "memory"})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	_ = mem.Close()

	lite, err := OpenStore(ctx, Config{DBPath: filepath.Join(t.TempDir(), "posts.db")})
	if err != nil {
		t.Fatalf("default sqlite: %v", err)
	}
	_ = lite.Close()

	if _, err := OpenStore(ctx, Config{Storage: "postgres"}); err == nil {
		t.Fatal("expected missing dsn error")
	}
	if _, err := OpenStore(ctx, Config{Storage: "mongo"}); err == nil {
		t.Fatal("expected unknown backend error")
	}
}

func TestNewRequiresAddress(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Config{Storage: "memory"}); err == nil {
		t.Fatal("expected empty address error")
	}
}

func TestServeSeedsAndStops(t *testing.T) {
	t.Parallel()

	server, err := New(context.Background(), Config{HTTPAddr: "127.0.0.1:0", Storage: "memory", Seed: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()

	resp, err := http.Get("http://" + server.Addr() + "/posts")
	if err != nil {
		cancel()
		t.Fatalf("GET /posts: %v", err)
	}
	var items []map[string]any
	err = json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if err != nil {
		cancel()
		t.Fatalf("decode posts: %v", err)
	}
	if len(items) != 100 {
		cancel()
		t.Fatalf("posts = %d, want 100", len(items))
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not stop")
	}
}
