// Package postlist serves the filtered post list.
package postlist

import (
	"net/http"

	"github.com/louisbranch/postdesk/internal/services/web/module"
	"github.com/louisbranch/postdesk/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/postdesk/internal/services/web/routepath"
)

// Module provides the post list routes. It also owns the site root and
// answers unknown paths with the not-found page.
type Module struct {
	workspaces WorkspaceResolver
	base       modulehandler.Base
}

// New returns a post list module.
func New(workspaces WorkspaceResolver, base modulehandler.Base) Module {
	return Module{workspaces: workspaces, base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "postlist" }

// Healthy reports whether the module has a workspace store.
func (m Module) Healthy() bool {
	return m.workspaces != nil
}

// Mount wires post list route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	h := newHandlers(newService(m.workspaces), m.base)
	registerRoutes(mux, h)
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
