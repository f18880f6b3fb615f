// Package i18nhttp picks the visitor language for a request and builds the
// language switcher links.
package i18nhttp

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	platformi18n "github.com/louisbranch/postdesk/internal/platform/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "pd_lang"

	langCookieMaxAge = 365 * 24 * time.Hour
)

// Source names where a resolved language came from.
type Source string

const (
	SourceQuery   Source = "query"
	SourceCookie  Source = "cookie"
	SourceHeader  Source = "accept-language"
	SourceDefault Source = "default"
)

// Resolution is the language chosen for one request.
type Resolution struct {
	Tag    language.Tag
	Source Source
}

// Persist reports whether the choice is new and belongs in the cookie.
func (r Resolution) Persist() bool {
	return r.Source == SourceQuery
}

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// Supported returns the supported language tags, default first.
func Supported() []language.Tag {
	return platformi18n.SupportedTags()
}

// Printer returns a message printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return platformi18n.Printer(tag)
}

// Resolve checks the lang query parameter, then the language cookie, then
// Accept-Language. Unsupported values fall through to the next source.
func Resolve(r *http.Request) Resolution {
	if r == nil {
		return Resolution{Tag: platformi18n.DefaultTag(), Source: SourceDefault}
	}
	if r.URL != nil {
		if tag, ok := platformi18n.ParseTag(r.URL.Query().Get(LangParam)); ok {
			return Resolution{Tag: tag, Source: SourceQuery}
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return Resolution{Tag: tag, Source: SourceCookie}
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return Resolution{Tag: platformi18n.MatchTags(tags), Source: SourceHeader}
		}
	}
	return Resolution{Tag: platformi18n.DefaultTag(), Source: SourceDefault}
}

// ResolveTag returns the request language and whether it should be persisted.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	res := Resolve(r)
	return res.Tag, res.Persist()
}

// SetLanguageCookie remembers tag for later requests.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int(langCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// NormalizeTag maps value to a supported tag, or the default one.
func NormalizeTag(value string) language.Tag {
	if tag, ok := platformi18n.ParseTag(value); ok {
		return tag
	}
	return platformi18n.DefaultTag()
}

// BuildLanguageOptions lists the switcher entries for the page at path with
// rawQuery, marking activeLang. label may be nil.
func BuildLanguageOptions(supported []language.Tag, activeLang, path, rawQuery string, label func(language.Tag) string) []LanguageOption {
	active := NormalizeTag(activeLang)
	options := make([]LanguageOption, 0, len(supported))
	for _, tag := range supported {
		name := tag.String()
		if label != nil {
			if got := strings.TrimSpace(label(tag)); got != "" {
				name = got
			}
		}
		options = append(options, LanguageOption{
			Tag:    tag.String(),
			Label:  name,
			URL:    LanguageURL(path, rawQuery, tag.String()),
			Active: tag == active,
		})
	}
	return options
}

// LanguageURL returns path with rawQuery and the lang parameter set to tag.
// Other parameters, such as the userId filter, are kept.
func LanguageURL(path, rawQuery, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

// LanguageKeyLabel returns the catalog key naming tag in the switcher.
func LanguageKeyLabel(tag language.Tag) string {
	base, _ := tag.Base()
	return "nav.lang_" + base.String()
}
