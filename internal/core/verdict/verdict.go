// Package verdict turns a model label and probability into the user facing prediction
package verdict

import (
	"fmt"

	"churnserve/internal/core/model"
)

// Display strings for the two classes
const (
	WillChurn    = "Will Churn"
	WillNotChurn = "Will Not Churn"
)

// Result is a derived prediction, it is never stored
type Result struct {
	WillChurn        bool    `json:"-"`
	ChurnProbability float64 `json:"-"`

	Prediction         string `json:"prediction"`
	ProbabilityOfChurn string `json:"probability_of_churn"`
}

// Format builds the result for label and p, p is clamped to [0,1] for display
func Format(label model.Label, p float64) Result {
	switch {
	case p < 0:
		p = 0
	case p > 1:
		p = 1
	}
	r := Result{
		WillChurn:          label == model.Churn,
		ChurnProbability:   p,
		Prediction:         WillNotChurn,
		ProbabilityOfChurn: Percent(p),
	}
	if r.WillChurn {
		r.Prediction = WillChurn
	}
	return r
}

// Percent renders a probability as a two decimal percentage, 0.7342 is "73.42%"
func Percent(p float64) string { return fmt.Sprintf("%.2f%%", p*100) }
