// Package service runs one prediction cycle: validate, encode, score, format
package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"churnserve/internal/core/features"
	"churnserve/internal/core/predictor"
	"churnserve/internal/core/verdict"
	perr "churnserve/internal/platform/errors"
	"churnserve/internal/platform/logger"
	"churnserve/internal/platform/metrics"
	"churnserve/internal/platform/net/http/bind"
	ptime "churnserve/internal/platform/time"

	"churnserve/internal/services/churn/domain"
)

// Service is everything the module exposes from the serving core
type Service interface {
	domain.ServicePort
	domain.StatusPort
	Reject(ctx context.Context, err error)
	Load(ctx context.Context, src domain.ArtifactSource) error
}

// Config controls request validation
type Config struct {
	// StrictBounds enforces the input form ranges on top of the non negative rules
	StrictBounds bool
}

// Svc implements Service over a single predictor
type Svc struct {
	pred   *predictor.Predictor
	cfg    Config
	met    *collectors
	source atomic.Pointer[string]
	now    func() time.Time
}

var _ Service = (*Svc)(nil)

// New returns a service in Loading for the given predictor, reg may be nil
func New(pred *predictor.Predictor, reg *metrics.Registry, cfg Config) *Svc {
	return &Svc{pred: pred, cfg: cfg, met: newCollectors(reg), now: time.Now}
}

// strictOrder fixes the order bounds are checked in so the reported field is stable
var strictOrder = []string{"TenureMonths", "MonthlyCharges", "SupportCalls"}

// Validate checks in and returns the encoder record, it never touches the predictor
func (s *Svc) Validate(in domain.PredictInput) (features.CustomerRecord, error) {
	if err := bind.Struct(in); err != nil {
		return features.CustomerRecord{}, err
	}
	r := in.Record()
	if s.cfg.StrictBounds {
		values := map[string]float64{
			"TenureMonths":   float64(r.TenureMonths),
			"MonthlyCharges": r.MonthlyCharges,
			"SupportCalls":   float64(r.SupportCalls),
		}
		for _, field := range strictOrder {
			b := features.UIBounds[field]
			if err := bind.Var(field, values[field], fmt.Sprintf("min=%g,max=%g", b.Min, b.Max)); err != nil {
				return features.CustomerRecord{}, err
			}
		}
	}
	return r, nil
}

// Predict implements domain.ServicePort
func (s *Svc) Predict(ctx context.Context, in domain.PredictInput) (verdict.Result, error) {
	rec, err := s.Validate(in)
	if err != nil {
		s.Reject(ctx, err)
		return verdict.Result{}, err
	}

	x := s.pred.Schema().Encode(rec)
	start := s.now()
	label, p, err := s.pred.Score(x)
	s.met.duration.Observe(s.now().Sub(start).Seconds())
	if err != nil {
		s.met.failed(err)
		l := logger.C(ctx)
		if perr.IsCode(err, perr.ErrorCodeShapeMismatch) {
			m, _, _ := s.pred.Meta()
			l.Error().Err(err).
				Int("expected", m.Width()).
				Int("actual", len(x)).
				Msg("feature vector does not fit the artifact")
		} else {
			l.Warn().Err(err).Msg("scoring failed")
		}
		return verdict.Result{}, err
	}

	s.met.served(label)
	return verdict.Format(label, p), nil
}

// Reject records a request that never reached scoring
func (s *Svc) Reject(ctx context.Context, err error) {
	if err == nil {
		return
	}
	s.met.failed(err)
	e, _ := perr.As(err)
	ev := logger.C(ctx).Debug().Err(err)
	if e != nil && e.Field() != "" {
		ev = ev.Str("field", e.Field())
	}
	ev.Msg("prediction rejected")
}

// Load reads an artifact from src and moves the predictor to Ready
func (s *Svc) Load(ctx context.Context, src domain.ArtifactSource) error {
	log := logger.Named("churn")
	art, err := src.Load(ctx, s.pred.Schema())
	if err != nil {
		log.Error().Err(err).Str("source", src.Name()).Msg("artifact load failed")
		return perr.WithOp(err, "churn.Load")
	}
	if err := s.pred.Ready(art); err != nil {
		log.Error().Err(err).Str("source", src.Name()).Msg("artifact rejected")
		return perr.WithOp(err, "churn.Load")
	}
	name := src.Name()
	s.source.Store(&name)

	m := art.Meta()
	s.met.loaded(m)
	log.Info().
		Str("source", name).
		Str("model", m.String()).
		Float64("threshold", m.Threshold).
		Str("schema", s.pred.Schema().String()).
		Msg("model ready")
	return nil
}

// Health implements domain.ServicePort
func (s *Svc) Health() domain.HealthResponse {
	return domain.HealthResponse{
		Status:  "ok",
		Message: domain.HealthMessage,
		State:   s.pred.State().String(),
	}
}

// State implements domain.StatusPort
func (s *Svc) State() predictor.State { return s.pred.State() }

// Model implements domain.StatusPort
func (s *Svc) Model() (domain.ModelInfo, bool) {
	m, at, ok := s.pred.Meta()
	if !ok {
		return domain.ModelInfo{}, false
	}
	schema := s.pred.Schema()
	info := domain.ModelInfo{
		Name:          m.Name,
		Version:       m.Version,
		Kind:          m.Kind.String(),
		Threshold:     m.Threshold,
		TrainedAt:     m.TrainedAt,
		SchemaName:    schema.Name,
		SchemaVersion: schema.Version,
		Columns:       schema.Columns(),
	}
	if src := s.source.Load(); src != nil {
		info.Source = *src
	}
	if t := ptime.Ptr(at); t != nil {
		info.LoadedAt = t.UTC().Format(time.RFC3339)
	}
	return info, true
}
