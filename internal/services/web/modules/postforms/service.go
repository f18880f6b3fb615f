package postforms

import (
	"errors"
	"net/http"

	apperrors "github.com/louisbranch/postdesk/internal/services/web/platform/errors"
	"github.com/louisbranch/postdesk/internal/services/web/workspace"
)

var errMissingBinding = errors.New("postforms: module has no form binding")

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

func (s service) workspace(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, error) {
	if s.workspaces == nil {
		return nil, apperrors.EK(apperrors.KindUnavailable, "core.error_unavailable", "workspace store is not configured")
	}
	ws := s.workspaces.Resolve(w, r)
	if ws == nil {
		return nil, apperrors.EK(apperrors.KindUnavailable, "core.error_unavailable", "workspace is unavailable")
	}
	return ws, nil
}
