package postlist

import (
	"net/http"

	"github.com/louisbranch/postdesk/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/postdesk/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/postdesk/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	view, err := h.service.list(w, r, r.URL.Query().Get(routepath.FilterUserIDParam))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WritePage(w, r, webtemplates.PostsTitle(loc), http.StatusOK, webtemplates.PostsList(mapListView(view), loc))
}
