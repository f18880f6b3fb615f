package postlist

import (
	"net/http"

	"github.com/louisbranch/postdesk/internal/posts"
	"github.com/louisbranch/postdesk/internal/services/web/forms"
	apperrors "github.com/louisbranch/postdesk/internal/services/web/platform/errors"
	webtemplates "github.com/louisbranch/postdesk/internal/services/web/templates"
	"github.com/louisbranch/postdesk/internal/services/web/workspace"
)

// WorkspaceResolver returns the requester's workspace.
type WorkspaceResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) *workspace.Workspace
}

type service struct {
	workspaces WorkspaceResolver
}

func newService(workspaces WorkspaceResolver) service {
	return service{workspaces: workspaces}
}

// list applies filter to the visitor's list controller and returns its view.
func (s service) list(w http.ResponseWriter, r *http.Request, filter string) (forms.ListView, error) {
	if s.workspaces == nil {
		return forms.ListView{}, apperrors.EK(apperrors.KindUnavailable, "core.error_unavailable", "workspace store is not configured")
	}
	ws := s.workspaces.Resolve(w, r)
	if ws == nil {
		return forms.ListView{}, apperrors.EK(apperrors.KindUnavailable, "core.error_unavailable", "workspace is unavailable")
	}
	ws.List.SetFilter(filter)
	return ws.List.View(), nil
}

func mapListView(view forms.ListView) webtemplates.PostsListView {
	out := webtemplates.PostsListView{
		Loading:    view.Loading,
		Refreshing: view.Fetching && !view.Loading,
		Filter:     view.Filter,
		Posts:      make([]webtemplates.PostCard, 0, len(view.Posts)),
	}
	if view.Err != nil {
		out.Error = view.Err.Error()
	}
	for _, post := range view.Posts {
		out.Posts = append(out.Posts, mapPost(post))
	}
	return out
}

func mapPost(post posts.Post) webtemplates.PostCard {
	return webtemplates.PostCard{
		ID:     post.ID.String(),
		Title:  post.Title,
		Body:   post.Body,
		UserID: post.UserID.String(),
	}
}
