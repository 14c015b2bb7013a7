package model

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"math"
	"os"

	"churnserve/internal/core/features"
	perr "churnserve/internal/platform/errors"
)

//go:embed churn_model.json
var embedded []byte

// Document is the on-disk artifact layout
type Document struct {
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	Kind         Kind      `json:"kind"`
	Schema       SchemaRef `json:"schema"`
	Threshold    float64   `json:"threshold"`
	TrainedAt    string    `json:"trained_at,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`
	Nodes        []Node    `json:"nodes,omitempty"`
}

// Node is one tree node, children index forward into the node list
type Node struct {
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
	Leaf      bool    `json:"leaf,omitempty"`
	Value     float64 `json:"value,omitempty"`
}

// Embedded returns a copy of the artifact compiled into the binary
func Embedded() []byte { return bytes.Clone(embedded) }

// Default decodes the embedded artifact against schema
func Default(schema features.Schema) (Artifact, error) { return Decode(embedded, schema) }

// ReadFile decodes the artifact at path against schema
func ReadFile(path string, schema features.Schema) (Artifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "read artifact %s", path)
	}
	return Decode(b, schema)
}

// Decode parses an artifact document and rejects anything the encoder cannot feed
func Decode(b []byte, schema features.Schema) (Artifact, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "artifact is not valid JSON"), "model.Decode")
	}
	a, err := doc.Build(schema)
	if err != nil {
		return nil, perr.WithOp(err, "model.Decode")
	}
	return a, nil
}

// Build validates doc against schema and returns the scoring artifact
func (doc Document) Build(schema features.Schema) (Artifact, error) {
	if doc.Name == "" || doc.Version == "" {
		return nil, perr.InvalidArgf("artifact name and version are required")
	}
	if err := schema.Check(doc.Schema.Name, doc.Schema.Version, doc.Schema.Columns); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "artifact %s@%s schema drift", doc.Name, doc.Version)
	}
	if !(doc.Threshold > 0 && doc.Threshold < 1) {
		return nil, perr.InvalidArgf("artifact threshold %v must be inside (0,1)", doc.Threshold)
	}

	meta := Meta{
		Name:      doc.Name,
		Version:   doc.Version,
		Kind:      doc.Kind,
		Schema:    doc.Schema,
		Threshold: doc.Threshold,
		TrainedAt: doc.TrainedAt,
	}
	width := schema.Width()

	switch doc.Kind {
	case KindLogistic:
		if len(doc.Coefficients) != width {
			return nil, perr.InvalidArgf("logistic artifact has %d coefficients, schema %s has %d columns",
				len(doc.Coefficients), schema, width)
		}
		if !finite(doc.Intercept) || !finite(doc.Coefficients...) {
			return nil, perr.InvalidArgf("logistic artifact has non finite weights")
		}
		return &logistic{meta: meta, intercept: doc.Intercept, coef: append([]float64(nil), doc.Coefficients...)}, nil

	case KindTree:
		if err := checkNodes(doc.Nodes, width); err != nil {
			return nil, err
		}
		return &tree{meta: meta, nodes: append([]Node(nil), doc.Nodes...)}, nil
	}
	return nil, perr.InvalidArgf("unknown artifact kind %q", doc.Kind)
}

func checkNodes(nodes []Node, width int) error {
	if len(nodes) == 0 {
		return perr.InvalidArgf("tree artifact has no nodes")
	}
	for i, n := range nodes {
		if n.Leaf {
			if !(n.Value >= 0 && n.Value <= 1) {
				return perr.InvalidArgf("tree leaf %d value %v outside [0,1]", i, n.Value)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= width {
			return perr.InvalidArgf("tree node %d splits on feature %d, width is %d", i, n.Feature, width)
		}
		if !finite(n.Threshold) {
			return perr.InvalidArgf("tree node %d has a non finite threshold", i)
		}
		for _, c := range []int{n.Left, n.Right} {
			if c <= i || c >= len(nodes) {
				return perr.InvalidArgf("tree node %d child %d must point forward inside [%d,%d)", i, c, i+1, len(nodes))
			}
		}
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
