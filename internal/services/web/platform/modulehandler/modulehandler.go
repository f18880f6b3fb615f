// Package modulehandler provides a composable base for web module handlers.
//
// Modules share handler infrastructure for localization, page rendering and
// error handling. Handlers embed Base rather than duplicating it.
package modulehandler

import (
	"net/http"

	"github.com/a-h/templ"
	webi18n "github.com/louisbranch/postdesk/internal/services/web/platform/i18n"
	"github.com/louisbranch/postdesk/internal/services/web/platform/pagerender"
	"github.com/louisbranch/postdesk/internal/services/web/platform/weberror"
	webtemplates "github.com/louisbranch/postdesk/internal/services/web/templates"
)

// Base carries the request-scoped resolvers used by module handlers.
type Base struct {
	resolveLanguage webi18n.ResolveLanguage
}

// NewBase builds a handler base. A nil resolver negotiates the language from
// each request.
func NewBase(resolveLanguage webi18n.ResolveLanguage) Base {
	return Base{resolveLanguage: resolveLanguage}
}

// ResolveRequestLanguage returns the explicit request language, if any.
func (b Base) ResolveRequestLanguage(r *http.Request) string {
	if b.resolveLanguage == nil {
		return ""
	}
	return b.resolveLanguage(r)
}

// PageLocalizer resolves a localizer and language tag from the request.
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (webtemplates.Localizer, string) {
	return webi18n.ResolveLocalizer(w, r, b.resolveLanguage)
}

// Localizer resolves the request localizer without writing cookies.
func (b Base) Localizer(r *http.Request) webtemplates.Localizer {
	return webi18n.LocalizerFor(r, b.resolveLanguage)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, b.resolveLanguage)
}

// WriteNotFound renders a 404 error page.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, "", b.resolveLanguage)
}

// WritePage renders a module page (HTMX-aware) with the given title and
// content fragment.
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, title string, statusCode int, fragment templ.Component) {
	if err := pagerender.WriteModulePage(w, r, b, pagerender.ModulePage{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, err)
	}
}
