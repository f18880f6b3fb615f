package app

import (
	"net/http"

	module "github.com/louisbranch/postdesk/internal/services/web/module"
	"github.com/louisbranch/postdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/postdesk/internal/services/web/routepath"
	"github.com/louisbranch/postdesk/internal/services/web/static"
)

type staticModule struct{}

func (staticModule) ID() string { return "static" }

func (staticModule) Mount() (module.Mount, error) {
	files := http.StripPrefix(routepath.StaticPrefix, http.FileServerFS(static.FS))
	return module.Mount{Prefix: routepath.StaticPrefix, Handler: files}, nil
}

// BuildRootHandler composes the configured modules plus static assets and
// wraps them in the shared middleware chain.
func BuildRootHandler(cfg Config) (http.Handler, error) {
	modules := append([]module.Module{staticModule{}}, cfg.Modules...)
	root, err := Compose(ComposeInput{
		Modules:             modules,
		RequestSchemePolicy: cfg.RequestSchemePolicy,
	})
	if err != nil {
		return nil, err
	}
	return httpx.Chain(root, httpx.RecoverPanic(), httpx.RequestID(), httpx.AccessLog()), nil
}
