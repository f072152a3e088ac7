package cphd

import (
	"errors"
	"math"
	"testing"
)

func checkDistribution(t *testing.T, d CardinalityDist) {
	t.Helper()
	var sum float64
	for n, p := range d {
		if p < 0 || math.IsNaN(p) {
			t.Errorf("P(%d) = %g, want non-negative", n, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("distribution sums to %g, want 1", sum)
	}
}

func TestPredictCardinality_PureSurvival(t *testing.T) {
	// Two certain targets, each surviving with probability 0.5 and no
	// births: the predicted count is Binomial(2, 0.5).
	prev := CardinalityDist{0, 0, 1, 0, 0}
	weights := []float64{1, 1}
	survival := []float64{0.5, 0.5}

	pred, err := PredictCardinality(prev, weights, survival, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkDistribution(t, pred)

	want := []float64{0.25, 0.5, 0.25, 0, 0}
	for n := range want {
		if math.Abs(pred[n]-want[n]) > 1e-9 {
			t.Errorf("P(%d) = %g, want %g", n, pred[n], want[n])
		}
	}
}

func TestPredictCardinality_CertainSurvivalKeepsDistribution(t *testing.T) {
	prev := CardinalityDist{0.1, 0.2, 0.4, 0.2, 0.1}
	weights := []float64{2, 3}
	survival := []float64{1, 1}

	pred, err := PredictCardinality(prev, weights, survival, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkDistribution(t, pred)
	for n := range prev {
		if math.Abs(pred[n]-prev[n]) > 1e-9 {
			t.Errorf("P(%d) = %g, want %g", n, pred[n], prev[n])
		}
	}
}

func TestPredictCardinality_ZeroWeightFlowsToBirth(t *testing.T) {
	// With no particle mass the weighted survival probability is taken as
	// 0, so the prediction is the truncated Poisson birth distribution.
	prev := CardinalityDist{0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0}
	const birthMass = 1.5

	pred, err := PredictCardinality(prev, nil, nil, birthMass)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkDistribution(t, pred)

	// Compare against Poisson(1.5) renormalised over 0..NMax.
	want := make([]float64, len(pred))
	var norm float64
	for n := range want {
		want[n] = math.Exp(-birthMass) * math.Pow(birthMass, float64(n)) / math.Gamma(float64(n)+1)
		norm += want[n]
	}
	for n := range want {
		if math.Abs(pred[n]-want[n]/norm) > 1e-9 {
			t.Errorf("P(%d) = %g, want %g", n, pred[n], want[n]/norm)
		}
	}
}

func TestPredictCardinality_SurvivalAndBirth(t *testing.T) {
	prev := CardinalityDist{0.3, 0.5, 0.2, 0, 0, 0, 0, 0}
	weights := []float64{1, 2, 1}
	survival := []float64{0.9, 0.95, 0.8}

	pred, err := PredictCardinality(prev, weights, survival, 0.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkDistribution(t, pred)

	// Expected count ≈ avgPs * E[prev] + birth mass, less truncation loss.
	avgPs := (0.9*1 + 0.95*2 + 0.8*1) / 4
	wantMean := avgPs*prev.Mean() + 0.7
	if math.Abs(pred.Mean()-wantMean) > 0.01 {
		t.Errorf("predicted mean %g, want about %g", pred.Mean(), wantMean)
	}
}

func TestUpdateCardinality(t *testing.T) {
	pred := CardinalityDist{0.2, 0.5, 0.3}
	upsilon0 := []float64{1, 4, 2}

	post, err := UpdateCardinality(upsilon0, pred)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkDistribution(t, post)

	// 0.2, 2.0, 0.6 before normalisation.
	want := []float64{0.2 / 2.8, 2.0 / 2.8, 0.6 / 2.8}
	for n := range want {
		if math.Abs(post[n]-want[n]) > 1e-12 {
			t.Errorf("P(%d) = %g, want %g", n, post[n], want[n])
		}
	}
}

func TestUpdateCardinality_Collapse(t *testing.T) {
	pred := CardinalityDist{0.5, 0.5}
	_, err := UpdateCardinality([]float64{0, 0}, pred)
	if !errors.Is(err, ErrCardinalityCollapse) {
		t.Fatalf("expected ErrCardinalityCollapse, got %v", err)
	}
}

func TestCardinalityDistStats(t *testing.T) {
	d := CardinalityDist{0.1, 0.2, 0.7}
	if got := d.Mean(); math.Abs(got-1.6) > 1e-12 {
		t.Errorf("mean = %g, want 1.6", got)
	}
	if got := d.ArgMax(); got != 2 {
		t.Errorf("argmax = %d, want 2", got)
	}
}
