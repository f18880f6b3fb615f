// Package weberror renders shared error responses for web modules.
package weberror

import (
	"net/http"
	"strings"

	"github.com/louisbranch/postdesk/internal/posts"
	apperrors "github.com/louisbranch/postdesk/internal/services/web/platform/errors"
	webi18n "github.com/louisbranch/postdesk/internal/services/web/platform/i18n"
	"github.com/louisbranch/postdesk/internal/services/web/platform/pagerender"
	webtemplates "github.com/louisbranch/postdesk/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status should use the error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound ||
		statusCode == http.StatusMethodNotAllowed ||
		statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message. Resource
// failures carry fixed messages and are shown as they are.
func PublicMessage(loc webi18n.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" {
				return localized
			}
		}
	}
	if posts.KindOf(err) != "" {
		return err.Error()
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	if text := strings.TrimSpace(http.StatusText(statusCode)); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}

type languageResolver webi18n.ResolveLanguage

func (f languageResolver) ResolveRequestLanguage(r *http.Request) string {
	if f == nil {
		return ""
	}
	return f(r)
}

// WriteAppError writes a localized error page for full-page and HTMX
// requests. message may be empty to use the status description.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, message string, resolveLanguage webi18n.ResolveLanguage) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	loc := webi18n.LocalizerFor(r, resolveLanguage)
	err := pagerender.WriteModulePage(w, r, languageResolver(resolveLanguage), pagerender.ModulePage{
		Title:      webtemplates.AppErrorPageTitle(loc),
		StatusCode: statusCode,
		Fragment:   webtemplates.AppErrorState(statusCode, message, loc),
	})
	if err != nil {
		http.Error(w, webtemplates.T(loc, webtemplates.AppErrorMessageKey(statusCode)), statusCode)
	}
}

// WriteModuleError writes a module-safe localized error response.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, resolveLanguage webi18n.ResolveLanguage) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	loc := webi18n.LocalizerFor(r, resolveLanguage)
	if ShouldRenderAppError(statusCode) {
		message := ""
		if apperrors.LocalizationKey(err) != "" || posts.KindOf(err) != "" {
			message = PublicMessage(loc, err)
		}
		WriteAppError(w, r, statusCode, message, resolveLanguage)
		return
	}
	http.Error(w, PublicMessage(loc, err), statusCode)
}
