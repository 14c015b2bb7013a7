// Package api composes the churn serving HTTP surface
package api

import (
	"context"

	"churnserve/internal/platform/config"
	"churnserve/internal/platform/logger"
	"churnserve/internal/platform/metrics"
	phttp "churnserve/internal/platform/net/http"
	"churnserve/internal/platform/store"

	"churnserve/internal/modkit"
	"churnserve/internal/modkit/httpkit"
	"churnserve/internal/modkit/module"
	"churnserve/internal/modkit/swaggerkit"

	metamod "churnserve/internal/services/api/meta/module"
	churnmod "churnserve/internal/services/churn/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Metrics        *metrics.Registry
	EnableSwagger  bool
	EnableProfiler bool
}

// API is the mounted surface; it serves in Loading until Load succeeds
type API struct {
	churn *churnmod.Module
	mods  []module.Module
}

// Mount installs the middleware stack and every route on a fresh r, returning the API in Loading
func Mount(r phttp.Router, opt Options) *API {
	deps := modkit.Deps{
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store.Enabled() {
		deps.PG = opt.Store.PG
	}

	// churn owns the predictor, meta reads its status port
	churn := churnmod.New(deps, churnmod.Options{})
	meta := metamod.New(deps, modkit.WithPorts(churn.Ports()))

	a := &API{churn: churn, mods: []module.Module{churn, meta}}
	for _, m := range a.mods {
		module.Register(m.Name(), m.Ports())
	}

	// root level so heartbeat and CORS preflight run for unrouted paths too
	r.Use(httpkit.CommonStack(httpkit.StackFromConfig(opt.Config.Prefix("CHURN_API_")))...)

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.Metrics != nil {
		opt.Metrics.Mount(r, "/metrics")
	}

	// GET / and POST /predict at the root, meta under /api/v1/meta
	churn.MountRoutes(r)
	httpkit.MountAPIV1(r, nil, meta.MountRoutes)
	return a
}

// Load reads the configured artifact; the server must not listen before it returns nil
func (a *API) Load(ctx context.Context) error { return a.churn.Load(ctx) }

// Modules lists the mounted modules in mount order
func (a *API) Modules() []module.Module { return a.mods }
