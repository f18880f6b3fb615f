package templates

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	routepath "github.com/louisbranch/postdesk/internal/services/web/routepath"
)

// AppErrorStateID marks the rendered error state.
const AppErrorStateID = "app-error-state"

// AppErrorMessageKey returns the catalog key describing statusCode.
func AppErrorMessageKey(statusCode int) string {
	switch statusCode {
	case http.StatusNotFound:
		return "core.error_not_found"
	case http.StatusMethodNotAllowed:
		return "core.error_method"
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return "core.error_unavailable"
	default:
		return "core.error_unknown"
	}
}

// AppErrorPageTitle returns the browser page title for app error pages.
func AppErrorPageTitle(loc Localizer) string {
	return T(loc, "core.error_title")
}

// AppErrorState renders the error state shown inside the main region. An
// empty message falls back to the localized description of statusCode.
func AppErrorState(statusCode int, message string, loc Localizer) templ.Component {
	return component(func(_ context.Context, m *markup) {
		if message == "" {
			message = T(loc, AppErrorMessageKey(statusCode))
		}
		m.open("section", "id", AppErrorStateID, "class", "error-state", "data-status", strconv.Itoa(statusCode))
		m.element("h2", AppErrorPageTitle(loc))
		m.element("p", message, "role", "alert")
		m.element("a", T(loc, "core.error_back_home"), "href", routepath.Home, "class", "btn btn-secondary")
		m.close("section")
	})
}
