package revalidate

import (
	"log"
	"net/http"

	"github.com/louisbranch/postdesk/internal/services/web/platform/httpx"
)

type handlers struct {
	cache Refetcher
}

func (h handlers) handleFocus(w http.ResponseWriter, r *http.Request) {
	h.revalidate(w, r, "focus", func() int { return h.cache.Refocus() })
}

func (h handlers) handleOnline(w http.ResponseWriter, r *http.Request) {
	h.revalidate(w, r, "online", func() int { return h.cache.Reconnect() })
}

func (h handlers) revalidate(w http.ResponseWriter, r *http.Request, trigger string, run func() int) {
	if h.cache == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	keys := run()
	log.Printf("revalidate trigger=%s keys=%d request_id=%s", trigger, keys, httpx.RequestIDFrom(r))
	w.WriteHeader(http.StatusNoContent)
}
