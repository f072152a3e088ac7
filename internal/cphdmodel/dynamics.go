package cphdmodel

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// pD coordinates are kept strictly inside (0,1) so that detection and
// non-detection terms never vanish exactly.
const (
	pdFloor = 1e-3
	pdCeil  = 1 - 1e-3
)

// SurvivalProbabilities implements cphd.Model with a constant per-target
// survival probability.
func (m *Model) SurvivalProbabilities(states [][]float64) []float64 {
	out := make([]float64, len(states))
	for i := range out {
		out[i] = m.params.SurvivalProb
	}
	return out
}

// SampleTransitions implements cphd.Model: nearly-constant-velocity motion
// with additive Gaussian noise, and a clamped Gaussian random walk on the
// detection-probability coordinate.
func (m *Model) SampleTransitions(states [][]float64, rng *rand.Rand) [][]float64 {
	posNoise := distuv.Normal{Mu: 0, Sigma: m.params.ProcessNoisePos, Src: rng}
	velNoise := distuv.Normal{Mu: 0, Sigma: m.params.ProcessNoiseVel, Src: rng}
	pdNoise := distuv.Normal{Mu: 0, Sigma: m.params.DetectionWalk, Src: rng}
	dt := m.params.Dt

	out := make([][]float64, len(states))
	for i, s := range states {
		next := make([]float64, StateDim)
		next[0] = clampPD(s[0] + pdNoise.Rand())
		next[1] = s[1] + s[2]*dt + posNoise.Rand()
		next[2] = s[2] + velNoise.Rand()
		next[3] = s[3] + s[4]*dt + posNoise.Rand()
		next[4] = s[4] + velNoise.Rand()
		out[i] = next
	}
	return out
}

// PredictedDetectionProbabilities implements cphd.Model; the bundle's
// deterministic pD is state-independent.
func (m *Model) PredictedDetectionProbabilities(states [][]float64) []float64 {
	out := make([]float64, len(states))
	for i := range out {
		out[i] = m.params.NominalDetectionProb
	}
	return out
}

func clampPD(v float64) float64 {
	switch {
	case v < pdFloor:
		return pdFloor
	case v > pdCeil:
		return pdCeil
	}
	return v
}
