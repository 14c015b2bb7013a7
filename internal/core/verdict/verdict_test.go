package verdict

import (
	"encoding/json"
	"testing"

	"churnserve/internal/core/model"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		label    model.Label
		p        float64
		wantPred string
		wantPct  string
	}{
		{model.Churn, 0.7342, "Will Churn", "73.42%"},
		{model.NoChurn, 0.1234, "Will Not Churn", "12.34%"},
		{model.NoChurn, 0, "Will Not Churn", "0.00%"},
		{model.Churn, 1, "Will Churn", "100.00%"},
		{model.Churn, 0.99999, "Will Churn", "100.00%"},
		{model.NoChurn, 0.5, "Will Not Churn", "50.00%"},
	}
	for _, tc := range cases {
		r := Format(tc.label, tc.p)
		if r.Prediction != tc.wantPred || r.ProbabilityOfChurn != tc.wantPct {
			t.Fatalf("Format(%s, %v) = %q %q", tc.label, tc.p, r.Prediction, r.ProbabilityOfChurn)
		}
		if r.WillChurn != (tc.label == model.Churn) || r.ChurnProbability != tc.p {
			t.Fatalf("typed fields wrong: %+v", r)
		}
	}
}

func TestFormat_ClampsForDisplay(t *testing.T) {
	if r := Format(model.NoChurn, -0.2); r.ProbabilityOfChurn != "0.00%" || r.ChurnProbability != 0 {
		t.Fatalf("negative not clamped: %+v", r)
	}
	if r := Format(model.Churn, 1.3); r.ProbabilityOfChurn != "100.00%" || r.ChurnProbability != 1 {
		t.Fatalf("above one not clamped: %+v", r)
	}
}

func TestResult_WireShape(t *testing.T) {
	b, err := json.Marshal(Format(model.Churn, 0.7342))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"prediction":"Will Churn","probability_of_churn":"73.42%"}` {
		t.Fatalf("wire = %s", b)
	}
}
