package templates

import (
	"context"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// Alert variants.
const (
	AlertSuccess = "success"
	AlertDanger  = "danger"
)

// Alert is a notice rendered above a form.
type Alert struct {
	Variant string
	Message string
}

// FormField is one input of a post form.
type FormField struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
	Multiline   bool
}

// FormView describes a post form fragment.
type FormView struct {
	ID           string
	Action       string
	Title        string
	Fields       []FormField
	SubmitLabel  string
	PendingLabel string
	Submitting   bool
	Danger       bool
	Alerts       []Alert
	// NoticeRefresh reloads the fragment once a success notice expires.
	NoticeRefresh time.Duration
}

// ErrorAlert builds the danger alert of a failed submit. A non-empty prefix
// is joined to the message with a space.
func ErrorAlert(prefix, message string) Alert {
	prefix = strings.TrimSpace(prefix)
	if prefix != "" {
		message = prefix + " " + message
	}
	return Alert{Variant: AlertDanger, Message: message}
}

// PostForm renders a form fragment that posts back to itself.
func PostForm(view FormView) templ.Component {
	return component(func(_ context.Context, m *markup) {
		attrs := []string{"id", view.ID, "class", "post-form"}
		if view.NoticeRefresh > 0 {
			attrs = append(attrs,
				"hx-get", view.Action,
				"hx-trigger", "load delay:"+millis(view.NoticeRefresh.Milliseconds()),
				"hx-swap", "outerHTML")
		}
		m.open("section", attrs...)
		m.element("h2", view.Title)

		for _, alert := range view.Alerts {
			role := "status"
			if alert.Variant == AlertDanger {
				role = "alert"
			}
			m.element("div", alert.Message, "class", "alert alert-"+alert.Variant, "role", role)
		}

		m.open("form", "method", "post", "action", view.Action,
			"hx-post", view.Action, "hx-target", "#"+view.ID, "hx-swap", "outerHTML")
		for _, field := range view.Fields {
			formField(m, view.ID, field)
		}
		buttonClass := "btn btn-primary"
		if view.Danger {
			buttonClass = "btn btn-danger"
		}
		m.raw("<button")
		m.attr("type", "submit")
		m.attr("class", buttonClass)
		m.flag("disabled", view.Submitting)
		m.raw(">")
		if view.Submitting {
			m.element("span", view.PendingLabel, "class", "label-pending-active")
		} else {
			m.element("span", view.SubmitLabel, "class", "label-idle")
			m.element("span", view.PendingLabel, "class", "label-pending")
		}
		m.close("button")
		m.close("form")
		m.close("section")
	})
}

func formField(m *markup, formID string, field FormField) {
	id := formID + "-" + field.Name
	m.open("div", "class", "form-group")
	m.element("label", field.Label, "for", id)
	if field.Multiline {
		m.open("textarea", "id", id, "name", field.Name, "placeholder", field.Placeholder, "rows", "3")
		m.text(field.Value)
		m.close("textarea")
	} else {
		inputType := field.Type
		if inputType == "" {
			inputType = "text"
		}
		m.open("input", "id", id, "type", inputType, "name", field.Name, "value", field.Value, "placeholder", field.Placeholder)
	}
	m.close("div")
}
