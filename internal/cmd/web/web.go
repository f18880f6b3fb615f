// Package web parses web service flags and launches the service.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/postdesk/internal/platform/cmd"
	"github.com/louisbranch/postdesk/internal/services/web"
)

// Config holds web command configuration.
type Config struct {
	HTTPAddr            string        `env:"POSTDESK_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	APIBaseURL          string        `env:"POSTDESK_WEB_API_BASE_URL" envDefault:"https://jsonplaceholder.typicode.com"`
	APITimeout          time.Duration `env:"POSTDESK_WEB_API_TIMEOUT" envDefault:"10s"`
	StaleTime           time.Duration `env:"POSTDESK_WEB_STALE_TIME" envDefault:"5m"`
	RetentionTime       time.Duration `env:"POSTDESK_WEB_RETENTION_TIME" envDefault:"15m"`
	NoticeDuration      time.Duration `env:"POSTDESK_WEB_NOTICE_DURATION" envDefault:"5s"`
	WorkspaceTTL        time.Duration `env:"POSTDESK_WEB_WORKSPACE_TTL" envDefault:"30m"`
	WorkspaceSize       int           `env:"POSTDESK_WEB_WORKSPACE_SIZE" envDefault:"1024"`
	TrustForwardedProto bool          `env:"POSTDESK_WEB_TRUST_FORWARDED_PROTO" envDefault:"false"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Post collection base URL")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "Timeout for one post collection call")
	fs.DurationVar(&cfg.StaleTime, "stale-time", cfg.StaleTime, "How long the post list stays fresh")
	fs.DurationVar(&cfg.RetentionTime, "retention-time", cfg.RetentionTime, "How long an unwatched cache entry is kept")
	fs.DurationVar(&cfg.NoticeDuration, "notice-duration", cfg.NoticeDuration, "How long form success notices stay visible")
	fs.DurationVar(&cfg.WorkspaceTTL, "workspace-ttl", cfg.WorkspaceTTL, "Idle lifetime of a visitor workspace")
	fs.IntVar(&cfg.WorkspaceSize, "workspace-size", cfg.WorkspaceSize, "Maximum number of live visitor workspaces")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Honor X-Forwarded-Proto from a proxy")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			APIBaseURL:          cfg.APIBaseURL,
			APITimeout:          cfg.APITimeout,
			StaleTime:           cfg.StaleTime,
			RetentionTime:       cfg.RetentionTime,
			NoticeDuration:      cfg.NoticeDuration,
			WorkspaceTTL:        cfg.WorkspaceTTL,
			WorkspaceSize:       cfg.WorkspaceSize,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
