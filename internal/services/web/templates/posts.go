package templates

import (
	"context"
	"strings"

	"github.com/a-h/templ"
	routepath "github.com/louisbranch/postdesk/internal/services/web/routepath"
)

const (
	// PostsRootID wraps the list region that polls and refreshes itself.
	PostsRootID = "posts-root"
	// RevalidatedEvent is raised on <body> after a focus or reconnect
	// revalidation so subscribed regions refresh.
	RevalidatedEvent = "revalidated"

	filterInputID = "filter-user-id"
	pollTrigger   = "every 1s"
)

// PostCard is one rendered post.
type PostCard struct {
	ID     string
	Title  string
	Body   string
	UserID string
}

// PostsListView is the post list page state.
type PostsListView struct {
	Loading    bool
	Refreshing bool
	Error      string
	Filter     string
	Posts      []PostCard
}

// RefreshURL is the list path keeping the current filter.
func (v PostsListView) RefreshURL() string {
	return routepath.HomeWithFilter(v.Filter)
}

// PostsTitle returns the page title of the list.
func PostsTitle(loc Localizer) string {
	return T(loc, "posts.title")
}

// PostsList renders the list region with its filter form.
func PostsList(view PostsListView, loc Localizer) templ.Component {
	return component(func(_ context.Context, m *markup) {
		trigger := RevalidatedEvent + " from:body"
		if view.Loading || view.Refreshing {
			trigger = pollTrigger + ", " + trigger
		}
		m.open("section", "id", PostsRootID, "class", "posts",
			"hx-get", view.RefreshURL(), "hx-trigger", trigger, "hx-swap", "outerHTML")
		m.element("h2", PostsTitle(loc))
		filterForm(m, view, loc)

		if msg := strings.TrimSpace(view.Error); msg != "" {
			m.element("div", msg, "class", "alert alert-danger", "role", "alert")
		}
		switch {
		case view.Loading:
			m.element("div", T(loc, "core.loading"), "class", "loading", "role", "status", "data-loading", "true")
		case len(view.Posts) == 0:
			m.element("p", T(loc, "posts.empty"), "class", "empty")
		default:
			m.open("ul", "class", "post-list")
			for _, post := range view.Posts {
				postCard(m, post, loc)
			}
			m.close("ul")
		}
		if view.Refreshing && !view.Loading {
			m.element("p", T(loc, "posts.refreshing"), "class", "refreshing", "aria-live", "polite")
		}
		m.close("section")
	})
}

func filterForm(m *markup, view PostsListView, loc Localizer) {
	m.open("form", "class", "filter", "role", "search", "method", "get", "action", routepath.Home,
		"hx-get", routepath.Home, "hx-target", "#"+PostsRootID, "hx-swap", "outerHTML", "hx-push-url", "true")
	m.element("label", T(loc, "posts.filter_title"), "for", filterInputID)
	m.open("input", "id", filterInputID, "type", "number", "name", routepath.FilterUserIDParam,
		"value", view.Filter, "placeholder", T(loc, "posts.filter_placeholder"))
	m.element("button", T(loc, "posts.filter_apply"), "type", "submit", "class", "btn btn-secondary")
	m.close("form")
}

func postCard(m *markup, post PostCard, loc Localizer) {
	m.open("li", "class", "card post-card", "data-post-id", post.ID)
	m.element("h3", post.ID+". "+post.Title)
	m.open("p", "class", "post-author")
	m.text(T(loc, "posts.by"))
	m.raw("<br>")
	m.element("i", T(loc, "posts.user")+" #"+post.UserID)
	m.close("p")
	m.element("p", T(loc, "posts.body_label")+" "+post.Body, "class", "post-body")
	m.close("li")
}
