package cphdmodel

import "math"

// MeasurementLikelihoods implements cphd.Model: the Gaussian density of
// measurement z around each state's position, evaluated through the
// residual against the zero-mean noise distribution built at construction.
func (m *Model) MeasurementLikelihoods(z []float64, states [][]float64) []float64 {
	out := make([]float64, len(states))
	residual := make([]float64, MeasurementDim)
	for i, s := range states {
		residual[0] = z[0] - s[1]
		residual[1] = z[1] - s[3]
		out[i] = math.Exp(m.measurementNoise.LogProb(residual))
	}
	return out
}
