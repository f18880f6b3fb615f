package postlist

import (
	"net/http"

	"github.com/louisbranch/postdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/postdesk/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.Home, h.handleIndex)
	mux.HandleFunc(routepath.Root+"{$}", httpx.MethodNotAllowed(http.MethodGet))
	mux.HandleFunc(routepath.Home, httpx.MethodNotAllowed(http.MethodGet))
	mux.HandleFunc(routepath.Root, h.WriteNotFound)
}
