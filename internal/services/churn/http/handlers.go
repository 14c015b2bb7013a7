// Package http provides the churn serving routes
package http

import (
	stdctx "context"
	stdhttp "net/http"

	"churnserve/internal/modkit/httpkit"
	"churnserve/internal/platform/net/http/bind"

	"churnserve/internal/services/churn/domain"
)

// Service is what the handlers need from the serving core
type Service interface {
	domain.ServicePort
	Reject(ctx stdctx.Context, err error)
}

// Register mounts the liveness and predict routes; limit wraps /predict only
func Register(r httpkit.Router, s Service, limit ...func(stdhttp.Handler) stdhttp.Handler) {
	h := &handlers{svc: s}
	httpkit.GetResponse(r, "/", h.health)
	r.With(limit...).Post("/predict", httpkit.Handle(h.predict))
}

type handlers struct{ svc Service }

// swagger:route GET / Churn churnHealth
// @Summary Liveness with model state
// @Tags Churn
// @Produce json
// @Success 200 {object} domain.HealthResponse "ok"
// @Router / [get]
func (h *handlers) health(_ *stdhttp.Request) httpkit.Response {
	return httpkit.Raw(h.svc.Health())
}

// swagger:route POST /predict Churn churnPredict
// @Summary Predict whether a customer will churn
// @Tags Churn
// @Accept json
// @Produce json
// @Param payload body domain.PredictInput true "Customer"
// @Success 200 {object} verdict.Result "ok"
// @Failure 400 {object} httpkit.Envelope "validation"
// @Failure 503 {object} httpkit.Envelope "model loading"
// @Router /predict [post]
func (h *handlers) predict(r *stdhttp.Request) httpkit.Response {
	in, err := bind.ParseJSON[domain.PredictInput](r)
	if err != nil {
		h.svc.Reject(r.Context(), err)
		return httpkit.Error(err)
	}
	out, err := h.svc.Predict(r.Context(), in)
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.Raw(out)
}
