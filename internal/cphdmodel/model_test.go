package cphdmodel

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Params)
		wantOK bool
	}{
		{"defaults", func(p *Params) {}, true},
		{"zero dt", func(p *Params) { p.Dt = 0 }, false},
		{"survival above one", func(p *Params) { p.SurvivalProb = 1.5 }, false},
		{"negative clutter rate", func(p *Params) { p.ClutterRate = -1 }, false},
		{"empty region", func(p *Params) { p.Region = [4]float64{5, 5, 0, 1} }, false},
		{"no birth sites", func(p *Params) { p.BirthSites = nil }, false},
		{"zero birth weight", func(p *Params) { p.BirthSites[0].Weight = 0 }, false},
		{"bad beta prior", func(p *Params) { p.BirthPDAlpha = 0 }, false},
		{"zero measurement noise", func(p *Params) { p.MeasurementNoise = 0 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			err := p.Validate()
			if tc.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMeasurementLikelihoods(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.MeasurementNoise = 2
	m, err := New(p)
	require.NoError(t, err)

	states := [][]float64{
		{0.9, 1, 0, 2, 0},   // at the measurement
		{0.9, 50, 0, 50, 0}, // far away
	}
	got := m.MeasurementLikelihoods([]float64{1, 2}, states)
	require.Len(t, got, 2)

	// Zero residual: the bivariate normal density peak 1/(2π σ²).
	peak := 1 / (2 * math.Pi * 4)
	assert.InDelta(t, peak, got[0], 1e-12)
	assert.Less(t, got[1], got[0])
	assert.GreaterOrEqual(t, got[1], 0.0)
}

func TestSampleTransitions(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.ProcessNoisePos = 0
	p.ProcessNoiseVel = 0
	p.DetectionWalk = 0
	m, err := New(p)
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(1, 1))
	in := [][]float64{{0.8, 1, 2, 3, -1}}
	out := m.SampleTransitions(in, rng)
	require.Len(t, out, 1)

	// Noise-free constant velocity: position advances by velocity*dt.
	assert.Equal(t, []float64{0.8, 3, 2, 2, -1}, out[0])
	// Input untouched.
	assert.Equal(t, []float64{0.8, 1, 2, 3, -1}, in[0])
}

func TestSampleBirths(t *testing.T) {
	t.Parallel()

	p := DefaultParams()
	p.BirthSites = []BirthSite{
		{Weight: 0.05, Mean: [4]float64{10, 0, 10, 0}, StdDev: [4]float64{1, 0.1, 1, 0.1}},
		{Weight: 0.05, Mean: [4]float64{-10, 0, -10, 0}, StdDev: [4]float64{1, 0.1, 1, 0.1}},
	}
	m, err := New(p)
	require.NoError(t, err)

	assert.InDelta(t, 0.1, m.BirthIntensityMass(), 1e-12)

	rng := rand.New(rand.NewPCG(42, 42))
	births := m.SampleBirths(rng, 500)
	require.Len(t, births, 500)

	near, far := 0, 0
	for _, b := range births {
		require.Len(t, b, StateDim)
		assert.GreaterOrEqual(t, b[0], pdFloor)
		assert.LessOrEqual(t, b[0], pdCeil)
		if b[1] > 0 {
			near++
		} else {
			far++
		}
	}
	// Both mixture components should contribute.
	assert.Greater(t, near, 100)
	assert.Greater(t, far, 100)

	assert.Nil(t, m.SampleBirths(rng, 0))
}

func TestConstantVectors(t *testing.T) {
	t.Parallel()

	m, err := New(DefaultParams())
	require.NoError(t, err)

	states := [][]float64{{0.5, 0, 0, 0, 0}, {0.5, 1, 1, 1, 1}}
	for _, s := range m.SurvivalProbabilities(states) {
		assert.Equal(t, 0.99, s)
	}
	for _, pd := range m.PredictedDetectionProbabilities(states) {
		assert.Equal(t, 0.95, pd)
	}
	assert.InDelta(t, 1.0/40000, m.ClutterDensity(), 1e-15)
}
