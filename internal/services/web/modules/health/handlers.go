package health

import (
	"log"
	"net/http"

	"github.com/louisbranch/postdesk/internal/services/web/platform/httpx"
)

type handlers struct {
	check func() Report
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	report := h.check()
	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
		log.Printf("health degraded modules=%v", report.Unhealthy())
	}
	if err := httpx.WriteJSON(w, status, report); err != nil {
		log.Printf("health write failed: %v", err)
	}
}
