package postforms

import (
	"context"
	"net/url"
	"time"

	"github.com/louisbranch/postdesk/internal/posts"
	"github.com/louisbranch/postdesk/internal/services/web/forms"
	"github.com/louisbranch/postdesk/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/postdesk/internal/services/web/templates"
	"github.com/louisbranch/postdesk/internal/services/web/workspace"
)

// Form field names, shared by the markup and the decoders.
const (
	fieldTitle  = "title"
	fieldBody   = "body"
	fieldUserID = "userId"
	fieldPostID = "postId"
)

// formShape holds the static description of a form.
type formShape struct {
	name       string
	path       string
	titleKey   string
	submitKey  string
	pendingKey string
	successKey string
	danger     bool
	// prefixErrors puts the localized error label before failure messages.
	prefixErrors bool
}

// binding connects a form route to the matching controller of a workspace.
type binding interface {
	shape() formShape
	view(ws *workspace.Workspace, loc webtemplates.Localizer, notice time.Duration) webtemplates.FormView
	submit(ctx context.Context, ws *workspace.Workspace, values url.Values)
}

type formBinding[In, Out any] struct {
	formShape
	controller func(*workspace.Workspace) *forms.Controller[In, Out]
	decode     func(url.Values) In
	fields     func(In, webtemplates.Localizer) []webtemplates.FormField
}

func (b formBinding[In, Out]) shape() formShape { return b.formShape }

func (b formBinding[In, Out]) submit(ctx context.Context, ws *workspace.Workspace, values url.Values) {
	b.controller(ws).Submit(ctx, b.decode(values))
}

func (b formBinding[In, Out]) view(ws *workspace.Workspace, loc webtemplates.Localizer, notice time.Duration) webtemplates.FormView {
	return buildView(b.formShape, b.controller(ws).View(), b.fields, loc, notice)
}

func buildView[In, Out any](shape formShape, state forms.View[In, Out], fields func(In, webtemplates.Localizer) []webtemplates.FormField, loc webtemplates.Localizer, notice time.Duration) webtemplates.FormView {
	view := webtemplates.FormView{
		ID:           shape.name,
		Action:       shape.path,
		Title:        webtemplates.T(loc, shape.titleKey),
		Fields:       fields(state.Values, loc),
		SubmitLabel:  webtemplates.T(loc, shape.submitKey),
		PendingLabel: webtemplates.T(loc, shape.pendingKey),
		Submitting:   state.Submitting(),
		Danger:       shape.danger,
	}
	switch {
	case state.Notice():
		view.Alerts = append(view.Alerts, webtemplates.Alert{
			Variant: webtemplates.AlertSuccess,
			Message: webtemplates.T(loc, shape.successKey),
		})
		view.NoticeRefresh = notice
	case state.Failed():
		prefix := ""
		if shape.prefixErrors {
			prefix = webtemplates.T(loc, "forms.error_prefix")
		}
		view.Alerts = append(view.Alerts, webtemplates.ErrorAlert(prefix, state.Err.Error()))
	}
	return view
}

func addBinding() binding {
	return formBinding[posts.Draft, posts.Post]{
		formShape: formShape{
			name:         "add-post",
			path:         routepath.AddPost,
			titleKey:     "nav.add_post",
			submitKey:    "forms.add_submit",
			pendingKey:   "forms.add_pending",
			successKey:   "forms.add_success",
			prefixErrors: true,
		},
		controller: func(ws *workspace.Workspace) *forms.AddForm { return ws.Add },
		decode:     decodeDraft,
		fields:     draftFields,
	}
}

func updateBinding() binding {
	return formBinding[posts.UpdateDraft, posts.Post]{
		formShape: formShape{
			name:         "update-post",
			path:         routepath.UpdatePost,
			titleKey:     "nav.update_post",
			submitKey:    "forms.update_submit",
			pendingKey:   "forms.update_pending",
			successKey:   "forms.update_success",
			prefixErrors: true,
		},
		controller: func(ws *workspace.Workspace) *forms.UpdateForm { return ws.Update },
		decode: func(values url.Values) posts.UpdateDraft {
			return posts.UpdateDraft{PostID: values.Get(fieldPostID), Draft: decodeDraft(values)}
		},
		fields: func(in posts.UpdateDraft, loc webtemplates.Localizer) []webtemplates.FormField {
			return append([]webtemplates.FormField{postIDField(in.PostID, loc)}, draftFields(in.Draft, loc)...)
		},
	}
}

func deleteBinding() binding {
	return formBinding[posts.DeleteDraft, posts.Deleted]{
		formShape: formShape{
			name:       "delete-post",
			path:       routepath.DeletePost,
			titleKey:   "nav.delete_post",
			submitKey:  "forms.delete_submit",
			pendingKey: "forms.delete_pending",
			successKey: "forms.delete_success",
			danger:     true,
		},
		controller: func(ws *workspace.Workspace) *forms.DeleteForm { return ws.Delete },
		decode: func(values url.Values) posts.DeleteDraft {
			return posts.DeleteDraft{PostID: values.Get(fieldPostID)}
		},
		fields: func(in posts.DeleteDraft, loc webtemplates.Localizer) []webtemplates.FormField {
			return []webtemplates.FormField{postIDField(in.PostID, loc)}
		},
	}
}

func commentBinding() binding {
	return formBinding[posts.CommentDraft, posts.Comment]{
		formShape: formShape{
			name:       "comment",
			path:       routepath.Comment,
			titleKey:   "nav.comment",
			submitKey:  "forms.comment_submit",
			pendingKey: "forms.comment_pending",
			successKey: "forms.comment_success",
		},
		controller: func(ws *workspace.Workspace) *forms.CommentForm { return ws.Comment },
		decode: func(values url.Values) posts.CommentDraft {
			return posts.CommentDraft{Body: values.Get(fieldBody), PostID: values.Get(fieldPostID)}
		},
		fields: func(in posts.CommentDraft, loc webtemplates.Localizer) []webtemplates.FormField {
			return []webtemplates.FormField{
				{
					Name:        fieldBody,
					Label:       webtemplates.T(loc, "forms.comment"),
					Placeholder: webtemplates.T(loc, "forms.comment_placeholder"),
					Value:       in.Body,
					Multiline:   true,
				},
				postIDField(in.PostID, loc),
			}
		},
	}
}

// decodeDraft keeps the raw inputs; validation happens in the controller.
func decodeDraft(values url.Values) posts.Draft {
	return posts.Draft{
		Title:  values.Get(fieldTitle),
		Body:   values.Get(fieldBody),
		UserID: values.Get(fieldUserID),
	}
}

func draftFields(in posts.Draft, loc webtemplates.Localizer) []webtemplates.FormField {
	return []webtemplates.FormField{
		{
			Name:        fieldTitle,
			Label:       webtemplates.T(loc, "forms.title"),
			Placeholder: webtemplates.T(loc, "forms.title_placeholder"),
			Value:       in.Title,
		},
		{
			Name:      fieldBody,
			Label:     webtemplates.T(loc, "forms.body"),
			Value:     in.Body,
			Multiline: true,
		},
		{
			Name:        fieldUserID,
			Label:       webtemplates.T(loc, "forms.user_id"),
			Type:        "number",
			Placeholder: webtemplates.T(loc, "forms.user_id_placeholder"),
			Value:       in.UserID,
		},
	}
}

func postIDField(value string, loc webtemplates.Localizer) webtemplates.FormField {
	return webtemplates.FormField{
		Name:        fieldPostID,
		Label:       webtemplates.T(loc, "forms.post_id"),
		Type:        "number",
		Placeholder: webtemplates.T(loc, "forms.post_id_placeholder"),
		Value:       value,
	}
}
