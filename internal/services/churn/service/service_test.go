package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"churnserve/internal/core/features"
	"churnserve/internal/core/model"
	"churnserve/internal/core/predictor"
	"churnserve/internal/core/verdict"
	perr "churnserve/internal/platform/errors"
	"churnserve/internal/platform/metrics"

	"churnserve/internal/services/churn/domain"
)

type fakeArtifact struct {
	meta  model.Meta
	score func(features.Vector) float64

	mu   sync.Mutex
	seen []features.Vector
}

func newFake(threshold float64, score func(features.Vector) float64) *fakeArtifact {
	return &fakeArtifact{
		meta: model.Meta{
			Name:      "fake",
			Version:   "t1",
			Kind:      model.KindLogistic,
			Threshold: threshold,
			Schema: model.SchemaRef{
				Name:    features.V1.Name,
				Version: features.V1.Version,
				Columns: features.V1.Columns(),
			},
		},
		score: score,
	}
}

func (f *fakeArtifact) Meta() model.Meta { return f.meta }

func (f *fakeArtifact) PredictProbability(x features.Vector) (float64, error) {
	f.mu.Lock()
	f.seen = append(f.seen, x)
	f.mu.Unlock()
	return f.score(x), nil
}

func (f *fakeArtifact) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

type fakeSource struct {
	art model.Artifact
	err error
}

func (s fakeSource) Name() string { return "fake" }

func (s fakeSource) Load(context.Context, features.Schema) (model.Artifact, error) {
	return s.art, s.err
}

func newReady(t *testing.T, art model.Artifact, cfg Config) (*Svc, *metrics.Registry) {
	t.Helper()
	reg := metrics.NewBare()
	s := New(predictor.New(features.V1), reg, cfg)
	if err := s.Load(context.Background(), fakeSource{art: art}); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s, reg
}

// metricValue sums every sample of family name whose labels include want
func metricValue(t *testing.T, reg *metrics.Registry, name string, want map[string]string) float64 {
	t.Helper()
	mfs, err := reg.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var total float64
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			got := map[string]string{}
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if got[k] != v {
					continue next
				}
			}
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return total
}

func TestPredict_EncodesAndFormats(t *testing.T) {
	art := newFake(0.5, func(features.Vector) float64 { return 0.7342 })
	s, reg := newReady(t, art, Config{})

	got, err := s.Predict(context.Background(), domain.NewInput(12, "Standard", 55.0, 2))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if got.Prediction != verdict.WillChurn || got.ProbabilityOfChurn != "73.42%" {
		t.Fatalf("unexpected result %+v", got)
	}

	want := features.Vector{12, 55, 2, 0, 1}
	if len(art.seen) != 1 || len(art.seen[0]) != len(want) {
		t.Fatalf("artifact saw %v", art.seen)
	}
	for i := range want {
		if art.seen[0][i] != want[i] {
			t.Fatalf("column %d = %v want %v", i, art.seen[0][i], want[i])
		}
	}
	if v := metricValue(t, reg, "churn_predictions_total", map[string]string{"label": "churn"}); v != 1 {
		t.Fatalf("predictions_total{churn} = %v", v)
	}
	if v := metricValue(t, reg, "churn_score_duration_seconds", nil); v != 1 {
		t.Fatalf("score histogram count = %v", v)
	}
}

func TestPredict_ThresholdIsStrict(t *testing.T) {
	art := newFake(0.5, func(features.Vector) float64 { return 0.5 })
	s, _ := newReady(t, art, Config{})
	got, err := s.Predict(context.Background(), domain.NewInput(1, "Basic", 20, 0))
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if got.WillChurn || got.Prediction != verdict.WillNotChurn || got.ProbabilityOfChurn != "50.00%" {
		t.Fatalf("tie should not churn, got %+v", got)
	}
}

func TestPredict_ValidationNeverScores(t *testing.T) {
	cases := []struct {
		name  string
		in    domain.PredictInput
		field string
	}{
		{"unknown plan", domain.NewInput(12, "Gold", 55, 2), "SubscriptionType"},
		{"lowercase plan", domain.NewInput(12, "premium", 55, 2), "SubscriptionType"},
		{"negative calls", domain.NewInput(12, "Basic", 55, -1), "SupportCalls"},
		{"negative tenure", domain.NewInput(-3, "Basic", 55, 2), "TenureMonths"},
		{"negative charges", domain.NewInput(3, "Basic", -0.5, 2), "MonthlyCharges"},
		{"missing tenure", func() domain.PredictInput {
			in := domain.NewInput(12, "Basic", 55, 2)
			in.TenureMonths = nil
			return in
		}(), "TenureMonths"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			art := newFake(0.5, func(features.Vector) float64 { return 0.9 })
			s, reg := newReady(t, art, Config{})
			_, err := s.Predict(context.Background(), tc.in)
			e, ok := perr.As(err)
			if !ok || e.Code() != perr.ErrorCodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if e.Field() != tc.field {
				t.Fatalf("field = %q want %q", e.Field(), tc.field)
			}
			if art.calls() != 0 {
				t.Fatalf("artifact should not be called on invalid input")
			}
			if v := metricValue(t, reg, "churn_prediction_errors_total", map[string]string{"code": "validation"}); v != 1 {
				t.Fatalf("errors_total{validation} = %v", v)
			}
		})
	}
}

func TestPredict_StrictBounds(t *testing.T) {
	art := newFake(0.5, func(features.Vector) float64 { return 0.1 })
	lax, _ := newReady(t, art, Config{})
	strict, _ := newReady(t, art, Config{StrictBounds: true})

	// zero tenure and 200 charges are outside the form but still non negative
	in := domain.NewInput(0, "Premium", 200, 11)
	if _, err := lax.Predict(context.Background(), in); err != nil {
		t.Fatalf("lax mode should accept out of form values: %v", err)
	}

	_, err := strict.Predict(context.Background(), in)
	e, ok := perr.As(err)
	if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != "TenureMonths" {
		t.Fatalf("strict mode should reject TenureMonths first, got %v", err)
	}

	_, err = strict.Predict(context.Background(), domain.NewInput(72, "Premium", 120.5, 3))
	if e, ok := perr.As(err); !ok || e.Field() != "MonthlyCharges" {
		t.Fatalf("expected MonthlyCharges bound error, got %v", err)
	}
	if _, err := strict.Predict(context.Background(), domain.NewInput(1, "Basic", 20, 10)); err != nil {
		t.Fatalf("bounds are inclusive: %v", err)
	}
}

func TestPredict_LoadingIsUnavailable(t *testing.T) {
	reg := metrics.NewBare()
	s := New(predictor.New(features.V1), reg, Config{})
	if h := s.Health(); h.State != "loading" || h.Status != "ok" || h.Message != domain.HealthMessage {
		t.Fatalf("health while loading = %+v", h)
	}
	_, err := s.Predict(context.Background(), domain.NewInput(12, "Standard", 55, 2))
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) || !perr.Retryable(err) {
		t.Fatalf("expected retryable unavailable, got %v", err)
	}
	if _, ok := s.Model(); ok {
		t.Fatalf("Model should report nothing while loading")
	}
	if v := metricValue(t, reg, "churn_model_ready", nil); v != 0 {
		t.Fatalf("model_ready = %v", v)
	}
}

func TestLoad_SetsStateAndInfo(t *testing.T) {
	art := newFake(0.42, func(features.Vector) float64 { return 0 })
	s, reg := newReady(t, art, Config{})

	if s.State() != predictor.Ready || s.Health().State != "ready" {
		t.Fatalf("expected ready")
	}
	info, ok := s.Model()
	if !ok {
		t.Fatalf("Model should be present")
	}
	if info.Name != "fake" || info.Version != "t1" || info.Threshold != 0.42 || info.Source != "fake" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.SchemaName != "churn-features" || info.SchemaVersion != 1 || len(info.Columns) != 5 || info.LoadedAt == "" {
		t.Fatalf("unexpected schema info %+v", info)
	}
	if v := metricValue(t, reg, "churn_model_ready", nil); v != 1 {
		t.Fatalf("model_ready = %v", v)
	}
	if v := metricValue(t, reg, "churn_model_info", map[string]string{"name": "fake", "version": "t1", "kind": "logistic"}); v != 1 {
		t.Fatalf("model_info = %v", v)
	}

	// second load is refused and the first artifact stays
	if err := s.Load(context.Background(), fakeSource{art: newFake(0.9, nil)}); err == nil {
		t.Fatalf("second load should fail")
	}
	if info, _ := s.Model(); info.Threshold != 0.42 {
		t.Fatalf("artifact was replaced")
	}
}

func TestLoad_SourceErrorKeepsLoading(t *testing.T) {
	s := New(predictor.New(features.V1), nil, Config{})
	boom := errors.New("boom")
	err := s.Load(context.Background(), fakeSource{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
	if s.State() != predictor.Loading {
		t.Fatalf("failed load must stay loading")
	}
}

func TestLoad_SchemaDriftRejected(t *testing.T) {
	art := newFake(0.5, nil)
	art.meta.Schema.Columns = []string{"tenureMonths", "monthlyCharges", "supportCalls", "isPremium"}
	s := New(predictor.New(features.V1), nil, Config{})
	err := s.Load(context.Background(), fakeSource{art: art})
	if !perr.IsCode(err, perr.ErrorCodeShapeMismatch) {
		t.Fatalf("expected shape mismatch, got %v", err)
	}
}

func TestReject_CountsByCode(t *testing.T) {
	reg := metrics.NewBare()
	s := New(predictor.New(features.V1), reg, Config{})
	s.Reject(context.Background(), perr.JSONErrf("bad json"))
	s.Reject(context.Background(), nil)
	if v := metricValue(t, reg, "churn_prediction_errors_total", map[string]string{"code": "json"}); v != 1 {
		t.Fatalf("errors_total{json} = %v", v)
	}
}

func TestPredict_ConcurrentCallsOwnTheirVectors(t *testing.T) {
	art := newFake(0.5, func(x features.Vector) float64 { return x[0] / 100 })
	s, _ := newReady(t, art, Config{})

	const n = 64
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(tenure int) {
			defer wg.Done()
			got, err := s.Predict(context.Background(), domain.NewInput(tenure, "Basic", 30, 1))
			if err != nil {
				errs <- err
				return
			}
			if want := verdict.Percent(float64(tenure) / 100); got.ProbabilityOfChurn != want {
				errs <- errors.New(got.ProbabilityOfChurn + " != " + want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
	if art.calls() != n {
		t.Fatalf("calls = %d", art.calls())
	}
}
