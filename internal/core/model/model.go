// Package model decodes trained churn scoring artifacts and evaluates them.
// An artifact is a JSON document produced by the training pipeline, checked against the
// feature schema at load time and read only afterwards
package model

import (
	"fmt"
	"math"

	"churnserve/internal/core/features"
	perr "churnserve/internal/platform/errors"
)

// Kind names the scoring function family of an artifact
type Kind string

// Supported kinds
const (
	KindLogistic Kind = "logistic"
	KindTree     Kind = "tree"
)

// Label is the binary class
type Label int8

// Classes
const (
	NoChurn Label = iota
	Churn
)

// String returns the metric friendly label
func (l Label) String() string {
	if l == Churn {
		return "churn"
	}
	return "no_churn"
}

// LabelFor applies the decision threshold, ties go to NoChurn
func LabelFor(p, threshold float64) Label {
	if p > threshold {
		return Churn
	}
	return NoChurn
}

// SchemaRef is the feature layout an artifact was trained on
type SchemaRef struct {
	Name    string   `json:"name"`
	Version int      `json:"version"`
	Columns []string `json:"columns"`
}

// Meta describes a loaded artifact
type Meta struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Kind      Kind      `json:"kind"`
	Schema    SchemaRef `json:"schema"`
	Threshold float64   `json:"threshold"`
	TrainedAt string    `json:"trained_at,omitempty"`
}

// Width is the input width the artifact expects
func (m Meta) Width() int { return len(m.Schema.Columns) }

// Artifact is a scoring function over feature vectors, safe for concurrent use
type Artifact interface {
	Meta() Meta
	PredictProbability(x features.Vector) (float64, error)
}

// Predict scores x and derives the label from the artifact threshold
func Predict(a Artifact, x features.Vector) (Label, float64, error) {
	p, err := a.PredictProbability(x)
	if err != nil {
		return NoChurn, 0, err
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return NoChurn, 0, perr.Internalf("artifact %s produced probability %v outside [0,1]", a.Meta().Name, p)
	}
	return LabelFor(p, a.Meta().Threshold), p, nil
}

func checkWidth(m Meta, x features.Vector) error {
	if len(x) != m.Width() {
		return perr.ShapeMismatchf("feature vector has %d columns, artifact %s@%s expects %d",
			len(x), m.Name, m.Version, m.Width())
	}
	return nil
}

// logistic is sigmoid(intercept + coefficients . x)
type logistic struct {
	meta      Meta
	intercept float64
	coef      []float64
}

func (l *logistic) Meta() Meta { return l.meta }

func (l *logistic) PredictProbability(x features.Vector) (float64, error) {
	if err := checkWidth(l.meta, x); err != nil {
		return 0, err
	}
	z := l.intercept
	for i, w := range l.coef {
		z += w * x[i]
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// tree is a binary decision tree whose leaves carry the churn probability
type tree struct {
	meta  Meta
	nodes []Node
}

func (t *tree) Meta() Meta { return t.meta }

func (t *tree) PredictProbability(x features.Vector) (float64, error) {
	if err := checkWidth(t.meta, x); err != nil {
		return 0, err
	}
	idx := 0
	// children always point forward so the walk ends within len(nodes) steps
	for range t.nodes {
		n := t.nodes[idx]
		if n.Leaf {
			return n.Value, nil
		}
		if x[n.Feature] <= n.Threshold {
			idx = n.Left
		} else {
			idx = n.Right
		}
	}
	return 0, perr.Internalf("tree %s did not reach a leaf", t.meta.Name)
}

func (k Kind) String() string { return string(k) }

func (m Meta) String() string { return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Kind) }
