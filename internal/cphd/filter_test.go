package cphd_test

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duhaocui/rfs-filters/internal/cphd"
	"github.com/duhaocui/rfs-filters/internal/cphdmodel"
	"github.com/duhaocui/rfs-filters/internal/kmeans"
)

// singleTargetModel is a tight-likelihood, clutter-free model with its birth
// intensity centred on the true target so the filter has every chance to
// lock on.
func singleTargetModel(t *testing.T) *cphdmodel.Model {
	t.Helper()
	p := cphdmodel.DefaultParams()
	p.SurvivalProb = 0.99
	p.ProcessNoisePos = 0.05
	p.ProcessNoiseVel = 0.01
	p.DetectionWalk = 0
	p.MeasurementNoise = 1
	p.ClutterRate = 0
	p.Region = [4]float64{-50, 50, -50, 50}
	p.BirthSites = []cphdmodel.BirthSite{
		{Weight: 0.2, Mean: [4]float64{10, 0, 10, 0}, StdDev: [4]float64{2, 0.2, 2, 0.2}},
	}
	// Births carry a detection probability close to 1: the perfect
	// detection scenario.
	p.BirthPDAlpha = 100
	p.BirthPDBeta = 1
	m, err := cphdmodel.New(p)
	require.NoError(t, err)
	return m
}

func singleTargetConfig() cphd.Config {
	cfg := cphd.DefaultConfig()
	cfg.MaxParticles = 5000
	cfg.ParticlesPerTarget = 500
	cfg.MaxCardinality = 10
	cfg.InitialState = []float64{10, 0, 10, 0}
	return cfg
}

func TestFilter_SingleStaticTarget(t *testing.T) {
	model := singleTargetModel(t)
	f, err := cphd.New(model, kmeans.New(0), singleTargetConfig(), rand.New(rand.NewPCG(11, 11)))
	require.NoError(t, err)

	scans := make([][][]float64, 5)
	for k := range scans {
		scans[k] = [][]float64{{10, 10}}
	}

	estimates, err := f.Run(scans)
	require.NoError(t, err)
	require.Len(t, estimates, 5)

	for _, est := range estimates {
		assert.Equal(t, 1, est.Count, "step %d: expected exactly one target", est.Step)
		require.Len(t, est.States, 1, "step %d", est.Step)
		x, y := est.States[0][0], est.States[0][2]
		assert.InDelta(t, 10, x, 1.5, "step %d x", est.Step)
		assert.InDelta(t, 10, y, 1.5, "step %d y", est.Step)
		assert.InDelta(t, 1, est.ExpectedCardinality, 0.5, "step %d cardinality", est.Step)
		assert.GreaterOrEqual(t, est.MeanDetectionProb, 0.0, "step %d", est.Step)
		assert.LessOrEqual(t, est.MeanDetectionProb, 1.0, "step %d", est.Step)
	}
}

func TestFilter_SeededRunsAreIdentical(t *testing.T) {
	scans := make([][][]float64, 4)
	for k := range scans {
		scans[k] = [][]float64{{10 + 0.1*float64(k), 10 - 0.1*float64(k)}}
	}

	run := func() []cphd.Estimate {
		f, err := cphd.New(singleTargetModel(t), kmeans.New(0), singleTargetConfig(),
			rand.New(rand.NewPCG(99, 7)))
		require.NoError(t, err)
		estimates, err := f.Run(scans)
		require.NoError(t, err)
		return estimates
	}

	first := run()
	second := run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("seeded runs differ (-first +second):\n%s", diff)
	}
}

func TestFilter_EmptyScans(t *testing.T) {
	model := singleTargetModel(t)
	f, err := cphd.New(model, kmeans.New(0), singleTargetConfig(), rand.New(rand.NewPCG(3, 3)))
	require.NoError(t, err)

	// Three scans with no measurements: with no clutter and pD near 1 the
	// posterior should drain toward zero targets without ever erroring.
	var last cphd.Estimate
	for step := 0; step < 3; step++ {
		est, err := f.Step(nil)
		require.NoError(t, err)
		last = est
	}
	assert.Equal(t, 0, last.Count)
	assert.Less(t, last.ExpectedCardinality, 0.5)
}

func TestFilter_MeasurementDimensionRejected(t *testing.T) {
	model := singleTargetModel(t)
	f, err := cphd.New(model, kmeans.New(0), singleTargetConfig(), rand.New(rand.NewPCG(5, 5)))
	require.NoError(t, err)

	_, err = f.Step([][]float64{{1, 2, 3}})
	require.ErrorIs(t, err, cphd.ErrMeasurementDim)
	assert.Contains(t, err.Error(), "step 0")

	// The rejected scan must not have advanced the recursion.
	assert.Equal(t, cphd.PhaseInitialized, f.Phase())
	_, err = f.Step([][]float64{{10, 10}})
	require.NoError(t, err)
	assert.Equal(t, cphd.PhaseExtracted, f.Phase())
}

func TestFilter_ConfigValidation(t *testing.T) {
	model := singleTargetModel(t)
	rng := rand.New(rand.NewPCG(1, 1))

	cases := []struct {
		name   string
		mutate func(*cphd.Config)
	}{
		{"zero max particles", func(c *cphd.Config) { c.MaxParticles = 0 }},
		{"zero particles per target", func(c *cphd.Config) { c.ParticlesPerTarget = 0 }},
		{"negative cardinality", func(c *cphd.Config) { c.MaxCardinality = -1 }},
		{"wrong initial state length", func(c *cphd.Config) { c.InitialState = []float64{1, 2} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := singleTargetConfig()
			tc.mutate(&cfg)
			_, err := cphd.New(model, kmeans.New(0), cfg, rng)
			assert.Error(t, err)
		})
	}

	t.Run("nil clusterer", func(t *testing.T) {
		_, err := cphd.New(model, nil, singleTargetConfig(), rng)
		assert.Error(t, err)
	})
}
