// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root               = "/"
	Home               = "/home"
	Health             = "/up"
	AddPost            = "/add-post"
	UpdatePost         = "/update-post"
	DeletePost         = "/delete-post"
	Comment            = "/comment"
	RevalidatePrefix   = "/revalidate/"
	RevalidateFocus    = "/revalidate/focus"
	RevalidateOnline   = "/revalidate/online"
	StaticPrefix       = "/static/"
	FilterUserIDParam  = "userId"
	FormSubmittedParam = "submitted"
)

// HomeWithFilter returns the post list path carrying the user filter.
func HomeWithFilter(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Home
	}
	values := url.Values{}
	values.Set(FilterUserIDParam, userID)
	return Home + "?" + values.Encode()
}
