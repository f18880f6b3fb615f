// Package modules defines web module registry helpers.
package modules

import (
	"net/http"
	"time"

	module "github.com/louisbranch/postdesk/internal/services/web/module"
	"github.com/louisbranch/postdesk/internal/services/web/workspace"
)

// Mount aliases the module mount contract.
type Mount = module.Mount

// Module aliases the module interface contract.
type Module = module.Module

// WorkspaceResolver returns the requester's workspace.
type WorkspaceResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) *workspace.Workspace
}

// Refetcher triggers revalidation of subscribed queries.
type Refetcher interface {
	Refocus() int
	Reconnect() int
}

// Dependencies carries the shared state the default modules are built on.
// Nil fields leave the matching modules mounted but unhealthy.
type Dependencies struct {
	Workspaces      WorkspaceResolver
	Cache           Refetcher
	ResolveLanguage module.ResolveLanguage
	// NoticeDuration is how long form success notices stay visible.
	NoticeDuration time.Duration
}
