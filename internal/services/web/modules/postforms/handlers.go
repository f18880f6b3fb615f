package postforms

import (
	"net/http"
	"time"

	apperrors "github.com/louisbranch/postdesk/internal/services/web/platform/errors"
	"github.com/louisbranch/postdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/postdesk/internal/services/web/platform/modulehandler"
	webtemplates "github.com/louisbranch/postdesk/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service service
	binding binding
	notice  time.Duration
}

func newHandlers(s service, b binding, base modulehandler.Base, notice time.Duration) handlers {
	return handlers{Base: base, service: s, binding: b, notice: notice}
}

func (h handlers) handleShow(w http.ResponseWriter, r *http.Request) {
	ws, err := h.service.workspace(w, r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	view := h.binding.view(ws, loc, h.notice)
	h.WritePage(w, r, view.Title, http.StatusOK, webtemplates.PostForm(view))
}

func (h handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "failed to parse form"))
		return
	}
	ws, err := h.service.workspace(w, r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.binding.submit(httpx.RequestContext(r), ws, r.PostForm)
	if !httpx.IsHTMXRequest(r) {
		httpx.WriteRedirect(w, r, h.binding.shape().path)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	view := h.binding.view(ws, loc, h.notice)
	h.WritePage(w, r, view.Title, http.StatusOK, webtemplates.PostForm(view))
}
