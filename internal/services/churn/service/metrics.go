package service

import (
	"churnserve/internal/core/model"
	perr "churnserve/internal/platform/errors"
	"churnserve/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// collectors are created per service so parallel tests never collide
type collectors struct {
	predictions *prometheus.CounterVec
	errors      *prometheus.CounterVec
	duration    prometheus.Histogram
	ready       prometheus.Gauge
	info        *prometheus.GaugeVec
}

func newCollectors(reg *metrics.Registry) *collectors {
	c := &collectors{
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "predictions_total",
			Help:      "Predictions served, by label.",
		}, []string{"label"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "prediction_errors_total",
			Help:      "Rejected or failed predictions, by error code.",
		}, []string{"code"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Name:      "score_duration_seconds",
			Help:      "Time spent scoring one feature vector.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),
		ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metrics.Namespace,
			Name:      "model_ready",
			Help:      "1 once the scoring artifact is loaded.",
		}),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metrics.Namespace,
			Name:      "model_info",
			Help:      "Loaded artifact identity, always 1.",
		}, []string{"name", "version", "kind"}),
	}
	if reg != nil {
		reg.MustRegister(c.predictions, c.errors, c.duration, c.ready, c.info)
	}
	return c
}

func (c *collectors) served(l model.Label) { c.predictions.WithLabelValues(l.String()).Inc() }

func (c *collectors) failed(err error) { c.errors.WithLabelValues(perr.CodeOf(err).String()).Inc() }

func (c *collectors) loaded(m model.Meta) {
	c.ready.Set(1)
	c.info.WithLabelValues(m.Name, m.Version, m.Kind.String()).Set(1)
}
