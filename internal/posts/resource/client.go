// Package resource issues the list/create/update/delete calls against the
// remote post collection and turns every failure into a typed posts.Error.
package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/postdesk/internal/posts"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the public demo store the front end talks to by default.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

const tracerName = "github.com/louisbranch/postdesk/internal/posts/resource"

// Client calls the remote post collection.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	tracer  trace.Tracer
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds each call. It applies on top of WithHTTPClient without
// modifying the supplied client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// New builds a client for baseURL. A blank baseURL targets DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.timeout > 0 {
		bounded := *c.http
		bounded.Timeout = c.timeout
		c.http = &bounded
	}
	return c
}

// BaseURL returns the collection root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListPosts loads the whole post collection.
func (c *Client) ListPosts(ctx context.Context) ([]posts.Post, error) {
	var out []posts.Post
	if err := c.do(ctx, posts.OpListPosts, http.MethodGet, "/posts", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []posts.Post{}
	}
	return out, nil
}

// CreatePost creates a post; the store assigns its id.
func (c *Client) CreatePost(ctx context.Context, draft posts.Draft) (posts.Post, error) {
	var out posts.Post
	if err := c.do(ctx, posts.OpCreatePost, http.MethodPost, "/posts", draft, &out); err != nil {
		return posts.Post{}, err
	}
	return out, nil
}

// UpdatePost replaces the post identified by id.
func (c *Client) UpdatePost(ctx context.Context, id string, draft posts.Draft) (posts.Post, error) {
	var out posts.Post
	if err := c.do(ctx, posts.OpUpdatePost, http.MethodPut, postPath(id), draft, &out); err != nil {
		return posts.Post{}, err
	}
	return out, nil
}

// DeletePost removes the post identified by id. Stores that answer with an
// empty object get the requested id echoed back.
func (c *Client) DeletePost(ctx context.Context, id string) (posts.Deleted, error) {
	var out posts.Deleted
	if err := c.do(ctx, posts.OpDeletePost, http.MethodDelete, postPath(id), nil, &out); err != nil {
		return posts.Deleted{}, err
	}
	if out.ID == 0 {
		var echoed posts.ID
		if err := json.Unmarshal([]byte(`"`+strings.TrimSpace(id)+`"`), &echoed); err == nil {
			out.ID = echoed
		}
	}
	return out, nil
}

// CreateComment attaches a comment to a post.
func (c *Client) CreateComment(ctx context.Context, draft posts.CommentDraft) (posts.Comment, error) {
	var out posts.Comment
	if err := c.do(ctx, posts.OpCreateComment, http.MethodPost, "/comments", draft, &out); err != nil {
		return posts.Comment{}, err
	}
	return out, nil
}

func postPath(id string) string {
	return "/posts/" + url.PathEscape(strings.TrimSpace(id))
}

func (c *Client) do(ctx context.Context, op posts.Op, method, path string, body any, out any) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := c.tracer.Start(ctx, "postdesk.resource/"+string(op), trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var reader io.Reader
	if body != nil {
		payload, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return posts.TransportError(op, fmt.Errorf("encode request: %w", marshalErr))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return posts.TransportError(op, fmt.Errorf("build request: %w", err))
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return posts.TransportError(op, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return posts.HTTPError(op, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return posts.TransportError(op, fmt.Errorf("read response: %w", err))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return posts.TransportError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
