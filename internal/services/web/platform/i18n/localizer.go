// Package i18n resolves request-scoped localizers for web modules.
package i18n

import (
	"net/http"
	"strings"

	"github.com/louisbranch/postdesk/internal/services/shared/i18nhttp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Localizer provides translated strings for rendering.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// ResolveLanguage returns an explicit request language, or "" to negotiate.
type ResolveLanguage func(*http.Request) string

// ResolveTag determines the request language. An explicit resolver answer
// wins over query, cookie and Accept-Language negotiation.
func ResolveTag(r *http.Request, resolveLanguage ResolveLanguage) language.Tag {
	if resolveLanguage != nil {
		if lang := strings.TrimSpace(resolveLanguage(r)); lang != "" {
			return i18nhttp.NormalizeTag(lang)
		}
	}
	tag, _ := i18nhttp.ResolveTag(r)
	return tag
}

// ResolveLocalizer returns the request printer and language, updating the
// language cookie when the visitor picked one through the query string.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request, resolveLanguage ResolveLanguage) (*message.Printer, string) {
	if resolveLanguage != nil {
		if lang := strings.TrimSpace(resolveLanguage(r)); lang != "" {
			tag := i18nhttp.NormalizeTag(lang)
			return i18nhttp.Printer(tag), tag.String()
		}
	}
	tag, persist := i18nhttp.ResolveTag(r)
	if persist {
		i18nhttp.SetLanguageCookie(w, tag)
	}
	return i18nhttp.Printer(tag), tag.String()
}

// LocalizerFor returns the request printer without touching cookies.
func LocalizerFor(r *http.Request, resolveLanguage ResolveLanguage) *message.Printer {
	return i18nhttp.Printer(ResolveTag(r, resolveLanguage))
}
