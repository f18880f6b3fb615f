// Package revalidate refetches the subscribed queries when a browser tab
// regains focus or connectivity.
package revalidate

import (
	"net/http"

	"github.com/louisbranch/postdesk/internal/services/web/module"
	"github.com/louisbranch/postdesk/internal/services/web/routepath"
)

// Refetcher is the query cache surface this module drives.
type Refetcher interface {
	Refocus() int
	Reconnect() int
}

// Module provides the revalidation triggers.
type Module struct {
	cache Refetcher
}

// New returns a revalidation module.
func New(cache Refetcher) Module {
	return Module{cache: cache}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "revalidate" }

// Healthy reports whether the module has a cache to drive.
func (m Module) Healthy() bool {
	return m.cache != nil
}

// Mount wires the revalidation routes.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{cache: m.cache})
	return module.Mount{Prefix: routepath.RevalidatePrefix, Handler: mux}, nil
}
