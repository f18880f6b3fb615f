package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/louisbranch/postdesk/internal/services/shared/i18nhttp"
)

func TestResolveLocalizerPersistsQueryLanguage(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/home?lang=fr", nil)
	rr := httptest.NewRecorder()
	loc, lang := ResolveLocalizer(rr, req, nil)

	if lang != "fr" {
		t.Fatalf("lang = %q, want %q", lang, "fr")
	}
	if got := loc.Sprintf("nav.home"); got != "Page D'accueil" {
		t.Fatalf("nav.home = %q, want %q", got, "Page D'accueil")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != i18nhttp.LangCookieName || cookies[0].Value != "fr" {
		t.Fatalf("cookies = %+v, want %s=fr", cookies, i18nhttp.LangCookieName)
	}
}

func TestResolveLocalizerLeavesCookieAloneWhenNegotiated(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.Header.Set("Accept-Language", "fr-CA,fr;q=0.9")
	rr := httptest.NewRecorder()
	_, lang := ResolveLocalizer(rr, req, nil)

	if lang != "fr" {
		t.Fatalf("lang = %q, want %q", lang, "fr")
	}
	if cookies := rr.Result().Cookies(); len(cookies) != 0 {
		t.Fatalf("cookies = %+v, want none", cookies)
	}
}

func TestResolveTagPrefersExplicitResolver(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/home?lang=fr", nil)
	tag := ResolveTag(req, func(*http.Request) string { return "en" })
	if tag.String() != "en" {
		t.Fatalf("tag = %q, want %q", tag.String(), "en")
	}
	if got := ResolveTag(req, nil).String(); got != "fr" {
		t.Fatalf("negotiated tag = %q, want %q", got, "fr")
	}
}
