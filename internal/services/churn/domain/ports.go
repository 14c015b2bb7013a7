package domain

import (
	"context"

	"churnserve/internal/core/features"
	"churnserve/internal/core/model"
	"churnserve/internal/core/predictor"
	"churnserve/internal/core/verdict"
)

// ServicePort is the serving surface the http layer calls
type ServicePort interface {
	Predict(ctx context.Context, in PredictInput) (verdict.Result, error)
	Health() HealthResponse
}

// StatusPort lets other modules read serving state without touching the predictor
type StatusPort interface {
	State() predictor.State
	Model() (ModelInfo, bool)
}

// ArtifactSource produces a scoring artifact decoded against schema
type ArtifactSource interface {
	Name() string
	Load(ctx context.Context, schema features.Schema) (model.Artifact, error)
}
