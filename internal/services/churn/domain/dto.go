// Package domain holds churn serving DTOs and ports independent of transport or storage
package domain

import (
	"churnserve/internal/core/features"
)

// PredictInput is the /predict body, pointers so a missing field is distinguishable from zero
type PredictInput struct {
	TenureMonths     *int     `json:"TenureMonths"     validate:"required,min=0" example:"12"`
	SubscriptionType *string  `json:"SubscriptionType" validate:"required,oneof=Basic Standard Premium" example:"Standard"`
	MonthlyCharges   *float64 `json:"MonthlyCharges"   validate:"required,min=0" example:"55.0"`
	SupportCalls     *int     `json:"SupportCalls"     validate:"required,min=0" example:"2"`
}

// Record converts a validated input into the encoder's record
// callers must validate first, nil fields read as zero
func (in PredictInput) Record() features.CustomerRecord {
	var r features.CustomerRecord
	if in.TenureMonths != nil {
		r.TenureMonths = *in.TenureMonths
	}
	if in.SubscriptionType != nil {
		r.Subscription = features.Subscription(*in.SubscriptionType)
	}
	if in.MonthlyCharges != nil {
		r.MonthlyCharges = *in.MonthlyCharges
	}
	if in.SupportCalls != nil {
		r.SupportCalls = *in.SupportCalls
	}
	return r
}

// NewInput builds a fully populated input, used by clients and tests
func NewInput(tenure int, plan string, charges float64, calls int) PredictInput {
	return PredictInput{
		TenureMonths:     &tenure,
		SubscriptionType: &plan,
		MonthlyCharges:   &charges,
		SupportCalls:     &calls,
	}
}

// HealthMessage is the fixed liveness message
const HealthMessage = "Churn Prediction API is running!"

// HealthResponse is the root liveness body
type HealthResponse struct {
	Status  string `json:"status"  example:"ok"`
	Message string `json:"message" example:"Churn Prediction API is running!"`
	State   string `json:"state"   example:"ready"`
}

// ModelInfo describes the loaded artifact and the encoder layout
type ModelInfo struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Kind          string   `json:"kind"`
	Threshold     float64  `json:"threshold"`
	TrainedAt     string   `json:"trained_at,omitempty"`
	Source        string   `json:"source"`
	LoadedAt      string   `json:"loaded_at"`
	SchemaName    string   `json:"schema_name"`
	SchemaVersion int      `json:"schema_version"`
	Columns       []string `json:"columns"`
}
