// Package postforms serves the add, update, delete and comment forms.
package postforms

import (
	"net/http"
	"time"

	"github.com/louisbranch/postdesk/internal/services/web/forms"
	"github.com/louisbranch/postdesk/internal/services/web/module"
	"github.com/louisbranch/postdesk/internal/services/web/platform/modulehandler"
)

// noticeSlack keeps the fragment reload behind the server-side notice timer.
const noticeSlack = 250 * time.Millisecond

// Module provides the routes of one post form.
type Module struct {
	binding    binding
	workspaces WorkspaceResolver
	base       modulehandler.Base
	notice     time.Duration
}

// NewAdd returns the create form module.
func NewAdd(workspaces WorkspaceResolver, base modulehandler.Base, notice time.Duration) Module {
	return newModule(addBinding(), workspaces, base, notice)
}

// NewUpdate returns the update form module.
func NewUpdate(workspaces WorkspaceResolver, base modulehandler.Base, notice time.Duration) Module {
	return newModule(updateBinding(), workspaces, base, notice)
}

// NewDelete returns the delete form module.
func NewDelete(workspaces WorkspaceResolver, base modulehandler.Base, notice time.Duration) Module {
	return newModule(deleteBinding(), workspaces, base, notice)
}

// NewComment returns the comment form module.
func NewComment(workspaces WorkspaceResolver, base modulehandler.Base, notice time.Duration) Module {
	return newModule(commentBinding(), workspaces, base, notice)
}

func newModule(b binding, workspaces WorkspaceResolver, base modulehandler.Base, notice time.Duration) Module {
	if notice <= 0 {
		notice = forms.DefaultNoticeDuration
	}
	return Module{binding: b, workspaces: workspaces, base: base, notice: notice}
}

// ID returns a stable module identifier.
func (m Module) ID() string {
	if m.binding == nil {
		return "postforms"
	}
	return m.binding.shape().name
}

// Healthy reports whether the module has a workspace store.
func (m Module) Healthy() bool {
	return m.workspaces != nil
}

// Mount wires the form route handlers.
func (m Module) Mount() (module.Mount, error) {
	if m.binding == nil {
		return module.Mount{}, errMissingBinding
	}
	mux := http.NewServeMux()
	h := newHandlers(newService(m.workspaces), m.binding, m.base, m.notice+noticeSlack)
	registerRoutes(mux, m.binding.shape().path, h)
	return module.Mount{Prefix: m.binding.shape().path, Handler: mux}, nil
}
