// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"churnserve/internal/modkit"
	"churnserve/internal/modkit/httpkit"
	"churnserve/internal/platform/store"
	str "churnserve/internal/platform/strings"

	metahttp "churnserve/internal/services/api/meta/http"
	churnmod "churnserve/internal/services/churn/module"
)

// ServiceName is reported by health and version
const ServiceName = "churn-api"

// Module implements the modkit.Module interface
type Module struct {
	deps      modkit.Deps
	b         modkit.Built
	startedAt time.Time
	churn     churnmod.Ports
}

// New constructs a meta module; WithPorts must carry the churn module Ports
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	p, ok := b.Ports.(churnmod.Ports)
	if !ok || p.Status == nil {
		panic("meta: churn ports are required")
	}
	return &Module{deps: deps, b: b, startedAt: time.Now(), churn: p}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		d := metahttp.Deps{
			ServiceName: ServiceName,
			StartedAt:   m.startedAt,
			Status:      m.churn.Status,
			PingTimeout: m.deps.Cfg.Prefix("CHURN_API_").MayDuration("READY_TIMEOUT", 2*time.Second),
		}
		if p, ok := m.deps.PG.(store.Pinger); ok && m.deps.HasPG() {
			d.PG = p
		}
		metahttp.Register(rr, d)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
