package health

import (
	"net/http"

	"github.com/louisbranch/postdesk/internal/services/web/platform/httpx"
	"github.com/louisbranch/postdesk/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)
	mux.HandleFunc(routepath.Health, httpx.MethodNotAllowed(http.MethodGet))
}
