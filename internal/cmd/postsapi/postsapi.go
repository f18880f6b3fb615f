// Package postsapi parses postsapi flags and launches the service.
package postsapi

import (
	"context"
	"flag"
	"path/filepath"

	entrypoint "github.com/louisbranch/postdesk/internal/platform/cmd"
	server "github.com/louisbranch/postdesk/internal/services/postsapi/app"
)

// Config holds postsapi command configuration.
type Config struct {
	HTTPAddr    string `env:"POSTDESK_POSTSAPI_HTTP_ADDR" envDefault:"localhost:8090"`
	Storage     string `env:"POSTDESK_POSTSAPI_STORAGE" envDefault:"sqlite"`
	DBPath      string `env:"POSTDESK_POSTSAPI_DB_PATH"`
	PostgresDSN string `env:"POSTDESK_POSTSAPI_POSTGRES_DSN"`
	Seed        bool   `env:"POSTDESK_POSTSAPI_SEED" envDefault:"true"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "posts.db")
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend: sqlite, postgres or memory")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "Postgres connection string")
	fs.BoolVar(&cfg.Seed, "seed", cfg.Seed, "Seed an empty store with demo posts")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the postsapi service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServicePostsAPI, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			HTTPAddr:    cfg.HTTPAddr,
			Storage:     cfg.Storage,
			DBPath:      cfg.DBPath,
			PostgresDSN: cfg.PostgresDSN,
			Seed:        cfg.Seed,
		})
	})
}
