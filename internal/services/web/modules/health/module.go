// Package health serves the liveness endpoint and aggregates module health.
package health

import (
	"net/http"
	"sort"

	"github.com/louisbranch/postdesk/internal/services/web/module"
	"github.com/louisbranch/postdesk/internal/services/web/routepath"
)

// Report is the JSON body of the health endpoint.
type Report struct {
	Status  string          `json:"status"`
	Modules map[string]bool `json:"modules,omitempty"`
}

// Module reports the health of the modules it was given.
type Module struct {
	modules []module.Module
}

// New returns a health module over modules. Modules that do not implement
// module.HealthReporter are left out of the report.
func New(modules ...module.Module) Module {
	return Module{modules: modules}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "health" }

// Mount wires the health route.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{check: m.Check})
	return module.Mount{Prefix: routepath.Health, Handler: mux}, nil
}

// Check builds the current report.
func (m Module) Check() Report {
	report := Report{Status: "ok"}
	for _, mod := range m.modules {
		reporter, ok := mod.(module.HealthReporter)
		if !ok {
			continue
		}
		if report.Modules == nil {
			report.Modules = make(map[string]bool)
		}
		healthy := reporter.Healthy()
		report.Modules[mod.ID()] = healthy
		if !healthy {
			report.Status = "degraded"
		}
	}
	return report
}

// Unhealthy lists the ids of failing modules in order.
func (r Report) Unhealthy() []string {
	var ids []string
	for id, healthy := range r.Modules {
		if !healthy {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
