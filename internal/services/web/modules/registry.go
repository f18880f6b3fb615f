package modules

import (
	"github.com/louisbranch/postdesk/internal/services/web/modules/health"
	"github.com/louisbranch/postdesk/internal/services/web/modules/postforms"
	"github.com/louisbranch/postdesk/internal/services/web/modules/postlist"
	"github.com/louisbranch/postdesk/internal/services/web/modules/revalidate"
	"github.com/louisbranch/postdesk/internal/services/web/platform/modulehandler"
)

// DefaultModules returns the web modules in mount order. The health module
// comes last and reports on every module before it.
func DefaultModules(deps Dependencies) []Module {
	base := modulehandler.NewBase(deps.ResolveLanguage)

	features := []Module{
		postlist.New(deps.Workspaces, base),
		postforms.NewAdd(deps.Workspaces, base, deps.NoticeDuration),
		postforms.NewUpdate(deps.Workspaces, base, deps.NoticeDuration),
		postforms.NewDelete(deps.Workspaces, base, deps.NoticeDuration),
		postforms.NewComment(deps.Workspaces, base, deps.NoticeDuration),
		revalidate.New(deps.Cache),
	}
	return append(features, health.New(features...))
}
