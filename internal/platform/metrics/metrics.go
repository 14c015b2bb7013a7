// Package metrics owns the process prometheus registry and its /metrics handler
package metrics

import (
	"net/http"

	phttp "churnserve/internal/platform/net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every collector this service registers
const Namespace = "churn"

// Registry wraps a dedicated prometheus registry so tests never share global state
type Registry struct {
	reg *prometheus.Registry
}

// New returns a registry preloaded with the go runtime and process collectors
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Registry{reg: reg}
}

// NewBare returns an empty registry, handy in tests that assert exact output
func NewBare() *Registry { return &Registry{reg: prometheus.NewRegistry()} }

// MustRegister registers collectors and panics on duplicates
func (r *Registry) MustRegister(cs ...prometheus.Collector) { r.reg.MustRegister(cs...) }

// Gatherer exposes the underlying gatherer for testutil
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Mount exposes the handler at path, typically /metrics
func (r *Registry) Mount(router phttp.Router, path string) {
	router.Handle(path, r.Handler())
}
