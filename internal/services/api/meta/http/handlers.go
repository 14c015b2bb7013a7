// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"churnserve/internal/core/predictor"
	"churnserve/internal/core/version"
	"churnserve/internal/modkit/httpkit"
	perr "churnserve/internal/platform/errors"
	"churnserve/internal/platform/store"

	churndom "churnserve/internal/services/churn/domain"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	// PG is nil when no database is configured
	PG     store.Pinger
	Status churndom.StatusPort
	// PingTimeout bounds each dependency check, default 2s
	PingTimeout time.Duration
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.PingTimeout <= 0 {
		d.PingTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.GetResponse(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/model", h.model)
}

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"churn-api"`
	State   string `json:"state"    example:"ready"`
	Started string `json:"started"  example:"2026-10-01T13:00:00Z"`
	Uptime  int64  `json:"uptime"   example:"300"`
	Now     string `json:"now"      example:"2026-10-01T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"model"`
	Status string `json:"status" example:"ok"` // ok fail skipped loading
	Detail string `json:"detail,omitempty" example:"churn@1.0.0"`
	Error  string `json:"error,omitempty"  example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status  string       `json:"status" example:"ok"` // ok fail
	Model   string       `json:"model,omitempty"   example:"churn"`
	Version string       `json:"version,omitempty" example:"1.0.0"`
	Checks  []ReadyCheck `json:"checks"`
	Now     string       `json:"now"    example:"2026-10-01T13:05:00Z"`
}

// swagger:route GET /api/v1/meta/health Meta metaHealth
// @Summary Liveness, never fails while the process runs
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /api/v1/meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	now := time.Now().UTC()
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		State:   h.deps.Status.State().String(),
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(now.Sub(h.deps.StartedAt) / time.Second),
		Now:     now.Format(time.RFC3339),
	}, nil
}

// swagger:route GET /api/v1/meta/ready Meta metaReady
// @Summary Readiness, 503 until the model is loaded or when a dependency fails
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Failure 503 {object} ReadyResponse "not ready"
// @Router /api/v1/meta/ready [get]
func (h *handlers) ready(r *http.Request) httpkit.Response {
	ctx, cancel := stdctx.WithTimeout(r.Context(), h.deps.PingTimeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Now: time.Now().UTC().Format(time.RFC3339)}

	mc := ReadyCheck{Name: "model", Status: "ok"}
	if h.deps.Status.State() != predictor.Ready {
		mc.Status = "loading"
	} else if info, ok := h.deps.Status.Model(); ok {
		out.Model, out.Version = info.Name, info.Version
		mc.Detail = info.Name + "@" + info.Version
	}

	pc := ReadyCheck{Name: "pg", Status: "skipped"}
	if h.deps.PG != nil {
		pc.Status = "ok"
		if err := h.deps.PG.Ping(ctx); err != nil {
			pc.Status, pc.Error = "fail", err.Error()
		}
	}
	out.Checks = []ReadyCheck{mc, pc}

	status := http.StatusOK
	if mc.Status != "ok" || pc.Status == "fail" {
		out.Status = "fail"
		status = http.StatusServiceUnavailable
	}
	return httpkit.Response{Status: status, Body: out}
}

// swagger:route GET /api/v1/meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /api/v1/meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// swagger:route GET /api/v1/meta/model Meta metaModel
// @Summary Loaded artifact and feature schema
// @Tags Meta
// @Produce json
// @Success 200 {object} churndom.ModelInfo "ok"
// @Failure 503 {object} httpkit.Envelope "model loading"
// @Router /api/v1/meta/model [get]
func (h *handlers) model(_ *http.Request) (any, error) {
	info, ok := h.deps.Status.Model()
	if !ok {
		return nil, perr.Unavailablef("model is still loading")
	}
	return info, nil
}
