package postforms

import (
	"net/http"

	"github.com/louisbranch/postdesk/internal/services/web/platform/httpx"
)

func registerRoutes(mux *http.ServeMux, path string, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+path, h.handleShow)
	mux.HandleFunc(http.MethodPost+" "+path, h.handleSubmit)
	mux.HandleFunc(path, httpx.MethodNotAllowed(http.MethodGet+", "+http.MethodPost))
}
