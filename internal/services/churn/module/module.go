// Package module wires churn serving into the API using modkit
package module

import (
	"context"
	"net/http"

	"churnserve/internal/core/features"
	"churnserve/internal/core/predictor"
	"churnserve/internal/modkit"
	"churnserve/internal/modkit/httpkit"
	"churnserve/internal/platform/net/middleware"
	str "churnserve/internal/platform/strings"

	"churnserve/internal/services/churn/domain"
	churnhttp "churnserve/internal/services/churn/http"
	"churnserve/internal/services/churn/repo"
	"churnserve/internal/services/churn/service"
	"churnserve/internal/services/churn/source"
)

// Module implements the modkit.Module interface
type Module struct {
	deps  modkit.Deps
	b     modkit.Built
	opts  Options
	svc   *service.Svc
	ports Ports
	limit func(http.Handler) http.Handler
}

// New constructs the churn module in Loading, call Load before serving
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)
	if overrides.StrictBounds {
		o.StrictBounds = true
	}
	if overrides.RateRPS != 0 {
		o.RateRPS = overrides.RateRPS
	}
	if overrides.RateBurst != 0 {
		o.RateBurst = overrides.RateBurst
	}
	if overrides.RateIdleTTL != 0 {
		o.RateIdleTTL = overrides.RateIdleTTL
	}

	b := modkit.Build(append([]modkit.Option{modkit.WithName("churn"), modkit.WithPrefix("")}, opts...)...)
	svc := service.New(predictor.New(features.V1), deps.Metrics, service.Config{StrictBounds: o.StrictBounds})

	m := &Module{deps: deps, b: b, opts: o, svc: svc}
	m.ports = Ports{Service: svc, Status: svc}
	if l := middleware.NewKeyedLimiter(o.RateRPS, o.RateBurst, o.RateIdleTTL); l != nil {
		m.limit = middleware.RateLimit(l, middleware.ClientIP)
	}
	return m
}

// Load resolves the configured artifact source and moves the module to Ready
func (m *Module) Load(ctx context.Context) error {
	src, err := source.New(source.FromConfig(m.deps.Cfg), m.deps.PG, repo.NewPG())
	if err != nil {
		return err
	}
	return m.LoadFrom(ctx, src)
}

// LoadFrom is Load with an explicit source
func (m *Module) LoadFrom(ctx context.Context, src domain.ArtifactSource) error {
	return m.svc.Load(ctx, src)
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		var limit []func(http.Handler) http.Handler
		if m.limit != nil {
			limit = append(limit, m.limit)
		}
		churnhttp.Register(rr, m.svc, limit...)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }
