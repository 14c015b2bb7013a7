// Package predictor holds the process wide scoring artifact behind a Loading to Ready
// state machine. The artifact is published once and only read afterwards
package predictor

import (
	"sync/atomic"
	"time"

	"churnserve/internal/core/features"
	"churnserve/internal/core/model"
	perr "churnserve/internal/platform/errors"
)

// State is the serving lifecycle
type State int32

// States, there is no transition back to Loading
const (
	Loading State = iota
	Ready
)

// String returns the health payload spelling
func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "loading"
}

type loaded struct {
	art model.Artifact
	at  time.Time
}

// Predictor scores vectors with the loaded artifact, safe for concurrent use
type Predictor struct {
	schema features.Schema
	cur    atomic.Pointer[loaded]
}

// New returns a predictor in Loading for vectors built with schema
func New(schema features.Schema) *Predictor {
	return &Predictor{schema: schema}
}

// Schema is the feature layout this predictor serves
func (p *Predictor) Schema() features.Schema { return p.schema }

// Ready publishes a and moves to Ready. It succeeds at most once
func (p *Predictor) Ready(a model.Artifact) error {
	if a == nil {
		return perr.InvalidArgf("nil artifact")
	}
	m := a.Meta()
	if err := p.schema.Check(m.Schema.Name, m.Schema.Version, m.Schema.Columns); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeShapeMismatch, "artifact %s does not fit %s", m, p.schema)
	}
	if !p.cur.CompareAndSwap(nil, &loaded{art: a, at: time.Now()}) {
		return perr.InvalidArgf("predictor already ready with %s", p.cur.Load().art.Meta())
	}
	return nil
}

// State reports Loading until Ready has succeeded
func (p *Predictor) State() State {
	if p.cur.Load() == nil {
		return Loading
	}
	return Ready
}

// Meta returns the loaded artifact metadata and when it was published
func (p *Predictor) Meta() (model.Meta, time.Time, bool) {
	l := p.cur.Load()
	if l == nil {
		return model.Meta{}, time.Time{}, false
	}
	return l.art.Meta(), l.at, true
}

// Score returns the label and churn probability for x
func (p *Predictor) Score(x features.Vector) (model.Label, float64, error) {
	l := p.cur.Load()
	if l == nil {
		return model.NoChurn, 0, perr.Unavailablef("model is still loading")
	}
	if w := l.art.Meta().Width(); len(x) != w {
		return model.NoChurn, 0, perr.ShapeMismatchf("feature vector has %d columns, model expects %d", len(x), w)
	}
	return model.Predict(l.art, x)
}
