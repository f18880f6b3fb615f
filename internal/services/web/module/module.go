// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"

	webi18n "github.com/louisbranch/postdesk/internal/services/web/platform/i18n"
)

// ResolveLanguage returns an explicit request language, or "" to negotiate
// from the request.
type ResolveLanguage = webi18n.ResolveLanguage

// Mount describes a module route mount.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is an optional interface for modules that can report their
// operational availability.
type HealthReporter interface {
	Healthy() bool
}
