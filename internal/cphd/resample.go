package cphd

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Resample draws a fresh particle set from p by multinomial resampling:
// min(ceil(S*perExpected), maxParticles) independent with-replacement draws
// with selection probability proportional to weight, where S is the total
// weight of p. Every resampled particle receives equal weight S/J, so the
// total mass is preserved exactly.
//
// Resampled states are deep copies; two draws of the same source index are
// independent particles afterwards. A set with no positive mass resamples
// to an empty set.
func Resample(p *ParticleSet, perExpected float64, maxParticles int, rng *rand.Rand) *ParticleSet {
	total := p.TotalWeight()
	if total <= 0 || p.Len() == 0 {
		return &ParticleSet{}
	}

	j := int(math.Ceil(total * perExpected))
	if j > maxParticles {
		j = maxParticles
	}
	if j < 1 {
		j = 1
	}

	dist := distuv.NewCategorical(p.Weights, rng)
	w := total / float64(j)

	out := &ParticleSet{
		States:  make([][]float64, j),
		Weights: make([]float64, j),
	}
	for k := 0; k < j; k++ {
		idx := int(dist.Rand())
		state := make([]float64, len(p.States[idx]))
		copy(state, p.States[idx])
		out.States[k] = state
		out.Weights[k] = w
	}
	return out
}
