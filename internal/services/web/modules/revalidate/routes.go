package revalidate

import (
	"net/http"

	"github.com/louisbranch/postdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/postdesk/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodPost+" "+routepath.RevalidateFocus, h.handleFocus)
	mux.HandleFunc(http.MethodPost+" "+routepath.RevalidateOnline, h.handleOnline)
	mux.HandleFunc(routepath.RevalidateFocus, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(routepath.RevalidateOnline, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc(routepath.RevalidatePrefix, http.NotFound)
}
