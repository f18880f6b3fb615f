package templates

import (
	"context"
	"strings"

	"github.com/a-h/templ"
	routepath "github.com/louisbranch/postdesk/internal/services/web/routepath"
)

const (
	brandKey    = "core.brand"
	footerKey   = "core.footer"
	languageKey = "nav.language"

	// MainContentID is the swap target for HTMX page navigation.
	MainContentID = "main"

	htmxScriptURL = "https://unpkg.com/htmx.org@2.0.4"
)

type navLink struct {
	Path string
	Key  string
}

var navLinks = []navLink{
	{Path: routepath.Home, Key: "nav.home"},
	{Path: routepath.AddPost, Key: "nav.add_post"},
	{Path: routepath.UpdatePost, Key: "nav.update_post"},
	{Path: routepath.DeletePost, Key: "nav.delete_post"},
	{Path: routepath.Comment, Key: "nav.comment"},
}

func navActive(current, path string) bool {
	if path == routepath.Home {
		return current == routepath.Home || current == routepath.Root
	}
	return current == path
}

// Layout renders the full document with the children of ctx inside <main>.
func Layout(page PageContext) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		lang := strings.TrimSpace(page.Lang)
		if lang == "" {
			lang = "en"
		}
		title := T(page.Loc, brandKey)
		if page.Title != "" {
			title = page.Title + " | " + title
		}

		m.raw("<!DOCTYPE html>")
		m.open("html", "lang", lang)
		m.raw("<head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		m.element("title", title)
		m.open("link", "rel", "stylesheet", "href", routepath.StaticPrefix+"app.css")
		m.open("script", "src", htmxScriptURL, "defer", "")
		m.close("script")
		m.open("script", "src", routepath.StaticPrefix+"app.js", "defer", "",
			"data-focus-url", routepath.RevalidateFocus,
			"data-online-url", routepath.RevalidateOnline)
		m.close("script")
		m.raw("</head>")

		m.open("body")
		navbar(ctx, m, page)
		m.render(ctx, MainContent())
		m.open("footer", "class", "footer")
		m.element("p", T(page.Loc, footerKey))
		m.close("footer")
		m.close("body")
		m.close("html")
	})
}

// MainContent renders the <main> region holding the children of ctx.
func MainContent() templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.open("main", "id", MainContentID, "class", "container")
		m.render(ctx, templ.GetChildren(ctx))
		m.close("main")
	})
}

func navbar(_ context.Context, m *markup, page PageContext) {
	m.open("nav", "class", "navbar", "aria-label", T(page.Loc, brandKey))
	m.element("a", T(page.Loc, brandKey), "class", "navbar-brand", "href", routepath.Home)
	m.open("ul", "class", "navbar-nav")
	for _, link := range navLinks {
		m.open("li", "class", "nav-item")
		if navActive(page.CurrentPath, link.Path) {
			m.element("a", T(page.Loc, link.Key), "class", "nav-link active", "aria-current", "page", "href", link.Path)
		} else {
			m.element("a", T(page.Loc, link.Key), "class", "nav-link", "href", link.Path)
		}
		m.close("li")
	}
	m.close("ul")

	m.open("ul", "class", "language-switch", "aria-label", T(page.Loc, languageKey))
	for _, option := range LanguageOptions(page) {
		m.open("li")
		if option.Active {
			m.element("a", option.Label, "href", option.URL, "hreflang", option.Tag, "aria-current", "true", "class", "active")
		} else {
			m.element("a", option.Label, "href", option.URL, "hreflang", option.Tag)
		}
		m.close("li")
	}
	m.close("ul")
	m.close("nav")
}
